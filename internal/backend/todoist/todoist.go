// Package todoist implements the remote adapter for the Todoist REST API.
// It is the only place that understands Todoist wire shapes; everything it
// returns is normalized into the backend-agnostic entities.
package todoist

import (
	"context"
	"net/http"

	"github.com/alexanderramin/taskline/internal/backend"
)

// Todoist implements backend.Backend against the Todoist REST v2 API.
type Todoist struct {
	c *client
}

// New creates a Todoist adapter with the given API token.
func New(token string) *Todoist {
	return &Todoist{c: newClient(token, "")}
}

// NewWithBaseURL creates an adapter against a non-default endpoint.
// Used by tests to point the adapter at a local server.
func NewWithBaseURL(token, baseURL string) *Todoist {
	return &Todoist{c: newClient(token, baseURL)}
}

func (t *Todoist) Type() string { return "todoist" }

// Wire shapes. Field names follow the REST v2 payloads.

type apiProject struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Color          string  `json:"color"`
	ParentID       *string `json:"parent_id"`
	Order          int     `json:"order"`
	IsFavorite     bool    `json:"is_favorite"`
	IsInboxProject bool    `json:"is_inbox_project"`
}

type apiSection struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Order     int    `json:"order"`
	Name      string `json:"name"`
}

// apiDue is Todoist's heterogeneous due shape: date-only tasks carry only
// Date, timed tasks additionally carry Datetime.
type apiDue struct {
	Date        string  `json:"date"`
	Datetime    *string `json:"datetime"`
	IsRecurring bool    `json:"is_recurring"`
}

type apiTask struct {
	ID          string   `json:"id"`
	ProjectID   string   `json:"project_id"`
	SectionID   *string  `json:"section_id"`
	ParentID    *string  `json:"parent_id"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	Order       int      `json:"order"`
	Labels      []string `json:"labels"`
	Due         *apiDue  `json:"due"`
	IsCompleted bool     `json:"is_completed"`
}

type apiLabel struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	Order      int    `json:"order"`
	IsFavorite bool   `json:"is_favorite"`
}

// Normalization helpers.

// Todoist's wire priority runs 1 (normal) to 4 (urgent), the inverse of its
// user-facing p1..p4 naming. The normalized scale keeps the wire direction:
// 4 is highest.
func priorityFromAPI(p int) int {
	if p < 1 {
		return 1
	}
	if p > 4 {
		return 4
	}
	return p
}

func projectFromAPI(p apiProject) backend.RemoteProject {
	return backend.RemoteProject{
		RemoteID:       p.ID,
		Name:           p.Name,
		Color:          p.Color,
		IsFavorite:     p.IsFavorite,
		IsInbox:        p.IsInboxProject,
		OrderIndex:     p.Order,
		ParentRemoteID: p.ParentID,
	}
}

func sectionFromAPI(s apiSection) backend.RemoteSection {
	return backend.RemoteSection{
		RemoteID:        s.ID,
		Name:            s.Name,
		ProjectRemoteID: s.ProjectID,
		OrderIndex:      s.Order,
	}
}

func taskFromAPI(t apiTask) backend.RemoteTask {
	rt := backend.RemoteTask{
		RemoteID:        t.ID,
		Content:         t.Content,
		Description:     t.Description,
		ProjectRemoteID: t.ProjectID,
		SectionRemoteID: t.SectionID,
		ParentRemoteID:  t.ParentID,
		Priority:        priorityFromAPI(t.Priority),
		OrderIndex:      t.Order,
		IsCompleted:     t.IsCompleted,
		Labels:          t.Labels,
	}
	if t.Due != nil {
		if t.Due.Date != "" {
			d := t.Due.Date
			rt.DueDate = &d
		}
		rt.DueDatetime = t.Due.Datetime
		rt.IsRecurring = t.Due.IsRecurring
	}
	return rt
}

func labelFromAPI(l apiLabel) backend.RemoteLabel {
	return backend.RemoteLabel{
		RemoteID:   l.ID,
		Name:       l.Name,
		Color:      l.Color,
		OrderIndex: l.Order,
		IsFavorite: l.IsFavorite,
	}
}

// Fetch operations.

func (t *Todoist) FetchProjects(ctx context.Context) ([]backend.RemoteProject, error) {
	var raw []apiProject
	if err := t.c.do(ctx, http.MethodGet, "/projects", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteProject, 0, len(raw))
	for _, p := range raw {
		out = append(out, projectFromAPI(p))
	}
	return out, nil
}

func (t *Todoist) FetchSections(ctx context.Context) ([]backend.RemoteSection, error) {
	var raw []apiSection
	if err := t.c.do(ctx, http.MethodGet, "/sections", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteSection, 0, len(raw))
	for _, s := range raw {
		out = append(out, sectionFromAPI(s))
	}
	return out, nil
}

func (t *Todoist) FetchTasks(ctx context.Context) ([]backend.RemoteTask, error) {
	var raw []apiTask
	if err := t.c.do(ctx, http.MethodGet, "/tasks", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteTask, 0, len(raw))
	for _, task := range raw {
		out = append(out, taskFromAPI(task))
	}
	return out, nil
}

func (t *Todoist) FetchLabels(ctx context.Context) ([]backend.RemoteLabel, error) {
	var raw []apiLabel
	if err := t.c.do(ctx, http.MethodGet, "/labels", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteLabel, 0, len(raw))
	for _, l := range raw {
		out = append(out, labelFromAPI(l))
	}
	return out, nil
}

// Project mutations.

type projectBody struct {
	Name       string  `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	ParentID   *string `json:"parent_id,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

func (t *Todoist) CreateProject(ctx context.Context, args backend.CreateProjectArgs) (*backend.RemoteProject, error) {
	body := projectBody{
		Name:       args.Name,
		Color:      args.Color,
		ParentID:   args.ParentRemoteID,
		IsFavorite: args.IsFavorite,
	}
	var raw apiProject
	if err := t.c.do(ctx, http.MethodPost, "/projects", body, &raw); err != nil {
		return nil, err
	}
	p := projectFromAPI(raw)
	return &p, nil
}

func (t *Todoist) UpdateProject(ctx context.Context, remoteID string, args backend.UpdateProjectArgs) (*backend.RemoteProject, error) {
	body := projectBody{
		Color:      args.Color,
		IsFavorite: args.IsFavorite,
	}
	if args.Name != nil {
		body.Name = *args.Name
	}
	var raw apiProject
	if err := t.c.do(ctx, http.MethodPost, "/projects/"+remoteID, body, &raw); err != nil {
		return nil, err
	}
	p := projectFromAPI(raw)
	return &p, nil
}

func (t *Todoist) DeleteProject(ctx context.Context, remoteID string) error {
	return t.c.do(ctx, http.MethodDelete, "/projects/"+remoteID, nil, nil)
}

// Section mutations.

type sectionBody struct {
	Name      string `json:"name"`
	ProjectID string `json:"project_id"`
	Order     *int   `json:"order,omitempty"`
}

func (t *Todoist) CreateSection(ctx context.Context, args backend.CreateSectionArgs) (*backend.RemoteSection, error) {
	body := sectionBody{
		Name:      args.Name,
		ProjectID: args.ProjectRemoteID,
		Order:     args.OrderIndex,
	}
	var raw apiSection
	if err := t.c.do(ctx, http.MethodPost, "/sections", body, &raw); err != nil {
		return nil, err
	}
	s := sectionFromAPI(raw)
	return &s, nil
}

func (t *Todoist) DeleteSection(ctx context.Context, remoteID string) error {
	return t.c.do(ctx, http.MethodDelete, "/sections/"+remoteID, nil, nil)
}

// Task mutations.

type taskBody struct {
	Content     string   `json:"content,omitempty"`
	Description *string  `json:"description,omitempty"`
	ProjectID   string   `json:"project_id,omitempty"`
	SectionID   *string  `json:"section_id,omitempty"`
	ParentID    *string  `json:"parent_id,omitempty"`
	Priority    *int     `json:"priority,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
	DueDatetime *string  `json:"due_datetime,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

func (t *Todoist) CreateTask(ctx context.Context, args backend.CreateTaskArgs) (*backend.RemoteTask, error) {
	body := taskBody{
		Content:     args.Content,
		Description: args.Description,
		ProjectID:   args.ProjectRemoteID,
		SectionID:   args.SectionRemoteID,
		ParentID:    args.ParentRemoteID,
		Priority:    args.Priority,
		DueDate:     args.DueDate,
		DueDatetime: args.DueDatetime,
		Labels:      args.Labels,
	}
	var raw apiTask
	if err := t.c.do(ctx, http.MethodPost, "/tasks", body, &raw); err != nil {
		return nil, err
	}
	task := taskFromAPI(raw)
	return &task, nil
}

func (t *Todoist) UpdateTask(ctx context.Context, remoteID string, args backend.UpdateTaskArgs) (*backend.RemoteTask, error) {
	body := taskBody{
		Description: args.Description,
		Priority:    args.Priority,
		DueDate:     args.DueDate,
		DueDatetime: args.DueDatetime,
		Labels:      args.Labels,
	}
	if args.Content != nil {
		body.Content = *args.Content
	}
	var raw apiTask
	if err := t.c.do(ctx, http.MethodPost, "/tasks/"+remoteID, body, &raw); err != nil {
		return nil, err
	}
	task := taskFromAPI(raw)
	return &task, nil
}

func (t *Todoist) DeleteTask(ctx context.Context, remoteID string) error {
	return t.c.do(ctx, http.MethodDelete, "/tasks/"+remoteID, nil, nil)
}

func (t *Todoist) CompleteTask(ctx context.Context, remoteID string) error {
	return t.c.do(ctx, http.MethodPost, "/tasks/"+remoteID+"/close", nil, nil)
}

// Label mutations.

type labelBody struct {
	Name       string  `json:"name,omitempty"`
	Color      *string `json:"color,omitempty"`
	IsFavorite *bool   `json:"is_favorite,omitempty"`
}

func (t *Todoist) CreateLabel(ctx context.Context, args backend.CreateLabelArgs) (*backend.RemoteLabel, error) {
	body := labelBody{
		Name:       args.Name,
		Color:      args.Color,
		IsFavorite: args.IsFavorite,
	}
	var raw apiLabel
	if err := t.c.do(ctx, http.MethodPost, "/labels", body, &raw); err != nil {
		return nil, err
	}
	l := labelFromAPI(raw)
	return &l, nil
}

func (t *Todoist) UpdateLabel(ctx context.Context, remoteID string, args backend.UpdateLabelArgs) (*backend.RemoteLabel, error) {
	body := labelBody{
		Color:      args.Color,
		IsFavorite: args.IsFavorite,
	}
	if args.Name != nil {
		body.Name = *args.Name
	}
	var raw apiLabel
	if err := t.c.do(ctx, http.MethodPost, "/labels/"+remoteID, body, &raw); err != nil {
		return nil, err
	}
	l := labelFromAPI(raw)
	return &l, nil
}

func (t *Todoist) DeleteLabel(ctx context.Context, remoteID string) error {
	return t.c.do(ctx, http.MethodDelete, "/labels/"+remoteID, nil, nil)
}

// Compile-time interface check.
var _ backend.Backend = (*Todoist)(nil)
