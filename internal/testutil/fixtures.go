package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/google/uuid"
)

var remoteIDCounter atomic.Int64

func nextRemoteID(prefix string) string {
	return fmt.Sprintf("%s-%04d", prefix, remoteIDCounter.Add(1))
}

// Backend options
type BackendOption func(*domain.Backend)

func WithBackendEnabled(enabled bool) BackendOption {
	return func(b *domain.Backend) {
		b.Enabled = enabled
	}
}

func WithTokenEnv(env string) BackendOption {
	return func(b *domain.Backend) {
		b.TokenEnv = env
	}
}

func NewTestBackend(name string, opts ...BackendOption) *domain.Backend {
	now := time.Now().UTC()
	b := &domain.Backend{
		ID:        uuid.New().String(),
		Type:      domain.BackendTodoist,
		Name:      name,
		TokenEnv:  "TODOIST_API_TOKEN",
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Project options
type ProjectOption func(*domain.Project)

func WithProjectRemoteID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.RemoteID = id
	}
}

func WithProjectOrder(n int) ProjectOption {
	return func(p *domain.Project) {
		p.OrderIndex = n
	}
}

func WithProjectParent(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ParentID = &id
	}
}

func WithInbox() ProjectOption {
	return func(p *domain.Project) {
		p.IsInbox = true
	}
}

func NewTestProject(backendID, name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		BackendID: backendID,
		RemoteID:  nextRemoteID("proj"),
		Name:      name,
		Color:     "charcoal",
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Section options
type SectionOption func(*domain.Section)

func WithSectionRemoteID(id string) SectionOption {
	return func(s *domain.Section) {
		s.RemoteID = id
	}
}

func WithSectionOrder(n int) SectionOption {
	return func(s *domain.Section) {
		s.OrderIndex = n
	}
}

func NewTestSection(backendID, projectID, name string, opts ...SectionOption) *domain.Section {
	s := &domain.Section{
		ID:        uuid.New().String(),
		BackendID: backendID,
		RemoteID:  nextRemoteID("sec"),
		Name:      name,
		ProjectID: projectID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Task options
type TaskOption func(*domain.Task)

func WithTaskRemoteID(id string) TaskOption {
	return func(t *domain.Task) {
		t.RemoteID = id
	}
}

func WithSection(sectionID string) TaskOption {
	return func(t *domain.Task) {
		t.SectionID = &sectionID
	}
}

func WithParentTask(taskID string) TaskOption {
	return func(t *domain.Task) {
		t.ParentID = &taskID
	}
}

func WithPriority(p domain.Priority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithTaskOrder(n int) TaskOption {
	return func(t *domain.Task) {
		t.OrderIndex = n
	}
}

func WithDueDate(date string) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &date
	}
}

func WithDueDatetime(dt string) TaskOption {
	return func(t *domain.Task) {
		t.DueDatetime = &dt
	}
}

func WithCompleted() TaskOption {
	return func(t *domain.Task) {
		t.IsCompleted = true
	}
}

func WithLabels(names ...string) TaskOption {
	return func(t *domain.Task) {
		t.Labels = names
	}
}

func NewTestTask(backendID, projectID, content string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		BackendID: backendID,
		RemoteID:  nextRemoteID("task"),
		Content:   content,
		ProjectID: projectID,
		Priority:  domain.PriorityLow,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Label options
type LabelOption func(*domain.Label)

func WithLabelRemoteID(id string) LabelOption {
	return func(l *domain.Label) {
		l.RemoteID = id
	}
}

func WithLabelColor(color string) LabelOption {
	return func(l *domain.Label) {
		l.Color = color
	}
}

func NewTestLabel(backendID, name string, opts ...LabelOption) *domain.Label {
	l := &domain.Label{
		ID:        uuid.New().String(),
		BackendID: backendID,
		RemoteID:  nextRemoteID("label"),
		Name:      name,
		Color:     "berry_red",
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}
