package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/taskline/internal/backend"
)

// FakeBackend is an in-memory backend.Backend for service tests. Fetch
// methods return the configured slices; mutation methods modify them in
// place. Every call is counted by method name, and per-method errors can be
// injected through Errs.
type FakeBackend struct {
	mu sync.Mutex

	Projects []backend.RemoteProject
	Sections []backend.RemoteSection
	Tasks    []backend.RemoteTask
	Labels   []backend.RemoteLabel

	// Errs injects a failure for the named method, e.g. "FetchTasks".
	Errs  map[string]error
	calls map[string]int

	nextID int
}

func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		Errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *FakeBackend) record(method string) error {
	f.calls[method]++
	return f.Errs[method]
}

// Calls returns how many times the named method was invoked.
func (f *FakeBackend) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (f *FakeBackend) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FakeBackend) newRemoteID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *FakeBackend) Type() string { return "todoist" }

func (f *FakeBackend) FetchProjects(ctx context.Context) ([]backend.RemoteProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FetchProjects"); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteProject, len(f.Projects))
	copy(out, f.Projects)
	return out, nil
}

func (f *FakeBackend) FetchSections(ctx context.Context) ([]backend.RemoteSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FetchSections"); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteSection, len(f.Sections))
	copy(out, f.Sections)
	return out, nil
}

func (f *FakeBackend) FetchTasks(ctx context.Context) ([]backend.RemoteTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FetchTasks"); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteTask, len(f.Tasks))
	copy(out, f.Tasks)
	return out, nil
}

func (f *FakeBackend) FetchLabels(ctx context.Context) ([]backend.RemoteLabel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("FetchLabels"); err != nil {
		return nil, err
	}
	out := make([]backend.RemoteLabel, len(f.Labels))
	copy(out, f.Labels)
	return out, nil
}

func (f *FakeBackend) CreateProject(ctx context.Context, args backend.CreateProjectArgs) (*backend.RemoteProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateProject"); err != nil {
		return nil, err
	}
	p := backend.RemoteProject{
		RemoteID:       f.newRemoteID("proj"),
		Name:           args.Name,
		ParentRemoteID: args.ParentRemoteID,
	}
	if args.Color != nil {
		p.Color = *args.Color
	}
	if args.IsFavorite != nil {
		p.IsFavorite = *args.IsFavorite
	}
	f.Projects = append(f.Projects, p)
	return &p, nil
}

func (f *FakeBackend) UpdateProject(ctx context.Context, remoteID string, args backend.UpdateProjectArgs) (*backend.RemoteProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateProject"); err != nil {
		return nil, err
	}
	for i := range f.Projects {
		if f.Projects[i].RemoteID != remoteID {
			continue
		}
		if args.Name != nil {
			f.Projects[i].Name = *args.Name
		}
		if args.Color != nil {
			f.Projects[i].Color = *args.Color
		}
		if args.IsFavorite != nil {
			f.Projects[i].IsFavorite = *args.IsFavorite
		}
		p := f.Projects[i]
		return &p, nil
	}
	return nil, backend.ErrNotFound
}

func (f *FakeBackend) DeleteProject(ctx context.Context, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteProject"); err != nil {
		return err
	}
	for i := range f.Projects {
		if f.Projects[i].RemoteID == remoteID {
			f.Projects = append(f.Projects[:i], f.Projects[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (f *FakeBackend) CreateSection(ctx context.Context, args backend.CreateSectionArgs) (*backend.RemoteSection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateSection"); err != nil {
		return nil, err
	}
	s := backend.RemoteSection{
		RemoteID:        f.newRemoteID("sec"),
		Name:            args.Name,
		ProjectRemoteID: args.ProjectRemoteID,
	}
	if args.OrderIndex != nil {
		s.OrderIndex = *args.OrderIndex
	}
	f.Sections = append(f.Sections, s)
	return &s, nil
}

func (f *FakeBackend) DeleteSection(ctx context.Context, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteSection"); err != nil {
		return err
	}
	for i := range f.Sections {
		if f.Sections[i].RemoteID == remoteID {
			f.Sections = append(f.Sections[:i], f.Sections[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (f *FakeBackend) CreateTask(ctx context.Context, args backend.CreateTaskArgs) (*backend.RemoteTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateTask"); err != nil {
		return nil, err
	}
	t := backend.RemoteTask{
		RemoteID:        f.newRemoteID("task"),
		Content:         args.Content,
		ProjectRemoteID: args.ProjectRemoteID,
		SectionRemoteID: args.SectionRemoteID,
		ParentRemoteID:  args.ParentRemoteID,
		Priority:        1,
		DueDate:         args.DueDate,
		DueDatetime:     args.DueDatetime,
		Labels:          args.Labels,
	}
	if args.Description != nil {
		t.Description = *args.Description
	}
	if args.Priority != nil {
		t.Priority = *args.Priority
	}
	f.Tasks = append(f.Tasks, t)
	return &t, nil
}

func (f *FakeBackend) UpdateTask(ctx context.Context, remoteID string, args backend.UpdateTaskArgs) (*backend.RemoteTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateTask"); err != nil {
		return nil, err
	}
	for i := range f.Tasks {
		if f.Tasks[i].RemoteID != remoteID {
			continue
		}
		if args.Content != nil {
			f.Tasks[i].Content = *args.Content
		}
		if args.Description != nil {
			f.Tasks[i].Description = *args.Description
		}
		if args.Priority != nil {
			f.Tasks[i].Priority = *args.Priority
		}
		if args.DueDate != nil {
			f.Tasks[i].DueDate = args.DueDate
			f.Tasks[i].DueDatetime = nil
		}
		if args.DueDatetime != nil {
			f.Tasks[i].DueDatetime = args.DueDatetime
		}
		if args.Labels != nil {
			f.Tasks[i].Labels = args.Labels
		}
		t := f.Tasks[i]
		return &t, nil
	}
	return nil, backend.ErrNotFound
}

func (f *FakeBackend) DeleteTask(ctx context.Context, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteTask"); err != nil {
		return err
	}
	for i := range f.Tasks {
		if f.Tasks[i].RemoteID == remoteID {
			f.Tasks = append(f.Tasks[:i], f.Tasks[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

func (f *FakeBackend) CompleteTask(ctx context.Context, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CompleteTask"); err != nil {
		return err
	}
	for i := range f.Tasks {
		if f.Tasks[i].RemoteID == remoteID {
			f.Tasks[i].IsCompleted = true
			return nil
		}
	}
	return backend.ErrNotFound
}

func (f *FakeBackend) CreateLabel(ctx context.Context, args backend.CreateLabelArgs) (*backend.RemoteLabel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateLabel"); err != nil {
		return nil, err
	}
	l := backend.RemoteLabel{
		RemoteID: f.newRemoteID("label"),
		Name:     args.Name,
	}
	if args.Color != nil {
		l.Color = *args.Color
	}
	if args.IsFavorite != nil {
		l.IsFavorite = *args.IsFavorite
	}
	f.Labels = append(f.Labels, l)
	return &l, nil
}

func (f *FakeBackend) UpdateLabel(ctx context.Context, remoteID string, args backend.UpdateLabelArgs) (*backend.RemoteLabel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateLabel"); err != nil {
		return nil, err
	}
	for i := range f.Labels {
		if f.Labels[i].RemoteID != remoteID {
			continue
		}
		if args.Name != nil {
			f.Labels[i].Name = *args.Name
		}
		if args.Color != nil {
			f.Labels[i].Color = *args.Color
		}
		if args.IsFavorite != nil {
			f.Labels[i].IsFavorite = *args.IsFavorite
		}
		l := f.Labels[i]
		return &l, nil
	}
	return nil, backend.ErrNotFound
}

func (f *FakeBackend) DeleteLabel(ctx context.Context, remoteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteLabel"); err != nil {
		return err
	}
	for i := range f.Labels {
		if f.Labels[i].RemoteID == remoteID {
			f.Labels = append(f.Labels[:i], f.Labels[i+1:]...)
			return nil
		}
	}
	return backend.ErrNotFound
}

var _ backend.Backend = (*FakeBackend)(nil)
