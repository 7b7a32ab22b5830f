package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/backend"
	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
)

type mutationService struct {
	registry *backend.Registry
	database *sql.DB
	uow      db.UnitOfWork
	observer OpObserver
}

// NewMutationService creates the remote-first mutation router.
func NewMutationService(registry *backend.Registry, database *sql.DB, uow db.UnitOfWork, observers ...OpObserver) MutationService {
	return &mutationService{
		registry: registry,
		database: database,
		uow:      uow,
		observer: opObserverOrNoop(observers),
	}
}

func (m *mutationService) observe(ctx context.Context, name string, start time.Time, err error, fields map[string]any) {
	ev := OpEvent{
		Name:      name,
		Duration:  time.Since(start),
		Success:   err == nil,
		StartedAt: start,
		Fields:    fields,
	}
	if err != nil {
		ev.Err = err
	}
	m.observer.ObserveOp(ctx, ev)
}

func (m *mutationService) CreateProject(ctx context.Context, in CreateProjectInput) (result *domain.Project, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "create_project", start, err, map[string]any{"backend_id": in.BackendID}) }()

	b, err := m.registry.Get(in.BackendID)
	if err != nil {
		return nil, err
	}
	args := backend.CreateProjectArgs{
		Name:       in.Name,
		Color:      in.Color,
		IsFavorite: in.IsFavorite,
	}
	if in.ParentID != nil {
		parent, err := repository.NewSQLiteProjectRepo(m.database).GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("resolving parent project: %w", err)
		}
		args.ParentRemoteID = &parent.RemoteID
	}

	remote, err := b.CreateProject(ctx, args)
	if err != nil {
		return nil, err
	}

	p := &domain.Project{
		BackendID:  in.BackendID,
		RemoteID:   remote.RemoteID,
		Name:       remote.Name,
		Color:      remote.Color,
		IsFavorite: remote.IsFavorite,
		IsInbox:    remote.IsInbox,
		OrderIndex: remote.OrderIndex,
		ParentID:   in.ParentID,
	}
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Upsert(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (m *mutationService) UpdateProject(ctx context.Context, id string, in UpdateProjectInput) (result *domain.Project, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "update_project", start, err, map[string]any{"project_id": id}) }()

	p, err := repository.NewSQLiteProjectRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := m.registry.Get(p.BackendID)
	if err != nil {
		return nil, err
	}

	remote, err := b.UpdateProject(ctx, p.RemoteID, backend.UpdateProjectArgs{
		Name:       in.Name,
		Color:      in.Color,
		IsFavorite: in.IsFavorite,
	})
	if err != nil {
		return nil, err
	}

	p.Name = remote.Name
	p.Color = remote.Color
	p.IsFavorite = remote.IsFavorite
	p.OrderIndex = remote.OrderIndex
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Upsert(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (m *mutationService) DeleteProject(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "delete_project", start, err, map[string]any{"project_id": id}) }()

	p, err := repository.NewSQLiteProjectRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return err
	}
	b, err := m.registry.Get(p.BackendID)
	if err != nil {
		return err
	}
	if err := b.DeleteProject(ctx, p.RemoteID); err != nil {
		return err
	}
	return m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).Delete(ctx, id)
	})
}

func (m *mutationService) CreateSection(ctx context.Context, in CreateSectionInput) (result *domain.Section, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "create_section", start, err, map[string]any{"project_id": in.ProjectID}) }()

	p, err := repository.NewSQLiteProjectRepo(m.database).GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("resolving project: %w", err)
	}
	b, err := m.registry.Get(p.BackendID)
	if err != nil {
		return nil, err
	}

	remote, err := b.CreateSection(ctx, backend.CreateSectionArgs{
		Name:            in.Name,
		ProjectRemoteID: p.RemoteID,
	})
	if err != nil {
		return nil, err
	}

	sec := &domain.Section{
		BackendID:  p.BackendID,
		RemoteID:   remote.RemoteID,
		Name:       remote.Name,
		ProjectID:  in.ProjectID,
		OrderIndex: remote.OrderIndex,
	}
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSectionRepo(tx).Upsert(ctx, sec)
	})
	if err != nil {
		return nil, err
	}
	return sec, nil
}

func (m *mutationService) DeleteSection(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "delete_section", start, err, map[string]any{"section_id": id}) }()

	sec, err := repository.NewSQLiteSectionRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return err
	}
	b, err := m.registry.Get(sec.BackendID)
	if err != nil {
		return err
	}
	if err := b.DeleteSection(ctx, sec.RemoteID); err != nil {
		return err
	}
	return m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSectionRepo(tx).Delete(ctx, id)
	})
}

func (m *mutationService) CreateTask(ctx context.Context, in CreateTaskInput) (result *domain.Task, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "create_task", start, err, map[string]any{"project_id": in.ProjectID}) }()

	p, err := repository.NewSQLiteProjectRepo(m.database).GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("resolving project: %w", err)
	}
	b, err := m.registry.Get(p.BackendID)
	if err != nil {
		return nil, err
	}

	args := backend.CreateTaskArgs{
		Content:         in.Content,
		Description:     in.Description,
		ProjectRemoteID: p.RemoteID,
		Priority:        in.Priority,
		DueDate:         in.DueDate,
		DueDatetime:     in.DueDatetime,
		Labels:          in.Labels,
	}
	if in.SectionID != nil {
		sec, err := repository.NewSQLiteSectionRepo(m.database).GetByID(ctx, *in.SectionID)
		if err != nil {
			return nil, fmt.Errorf("resolving section: %w", err)
		}
		if sec.ProjectID != in.ProjectID {
			return nil, fmt.Errorf("section %s belongs to another project: %w", *in.SectionID, backend.ErrValidation)
		}
		args.SectionRemoteID = &sec.RemoteID
	}
	if in.ParentID != nil {
		parent, err := repository.NewSQLiteTaskRepo(m.database).GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, fmt.Errorf("resolving parent task: %w", err)
		}
		args.ParentRemoteID = &parent.RemoteID
	}

	remote, err := b.CreateTask(ctx, args)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		BackendID:   p.BackendID,
		RemoteID:    remote.RemoteID,
		Content:     remote.Content,
		Description: remote.Description,
		ProjectID:   in.ProjectID,
		SectionID:   in.SectionID,
		ParentID:    in.ParentID,
		Priority:    domain.Priority(remote.Priority).Clamp(),
		OrderIndex:  remote.OrderIndex,
		DueDate:     remote.DueDate,
		DueDatetime: remote.DueDatetime,
		IsRecurring: remote.IsRecurring,
		IsCompleted: remote.IsCompleted,
		Labels:      remote.Labels,
	}
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Upsert(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (m *mutationService) UpdateTask(ctx context.Context, id string, in UpdateTaskInput) (result *domain.Task, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "update_task", start, err, map[string]any{"task_id": id}) }()

	t, err := repository.NewSQLiteTaskRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := m.registry.Get(t.BackendID)
	if err != nil {
		return nil, err
	}

	remote, err := b.UpdateTask(ctx, t.RemoteID, backend.UpdateTaskArgs{
		Content:     in.Content,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		DueDatetime: in.DueDatetime,
		Labels:      in.Labels,
	})
	if err != nil {
		return nil, err
	}

	t.Content = remote.Content
	t.Description = remote.Description
	t.Priority = domain.Priority(remote.Priority).Clamp()
	t.DueDate = remote.DueDate
	t.DueDatetime = remote.DueDatetime
	t.IsRecurring = remote.IsRecurring
	t.Labels = remote.Labels
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Upsert(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (m *mutationService) DeleteTask(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "delete_task", start, err, map[string]any{"task_id": id}) }()

	t, err := repository.NewSQLiteTaskRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return err
	}
	b, err := m.registry.Get(t.BackendID)
	if err != nil {
		return err
	}
	if err := b.DeleteTask(ctx, t.RemoteID); err != nil {
		return err
	}
	return m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Delete(ctx, id)
	})
}

// CompleteTask marks a pending task done. Completion is one-way; completed
// tasks reject a second completion.
func (m *mutationService) CompleteTask(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "complete_task", start, err, map[string]any{"task_id": id}) }()

	t, err := repository.NewSQLiteTaskRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t.IsCompleted {
		return fmt.Errorf("task %s already completed: %w", id, backend.ErrValidation)
	}
	b, err := m.registry.Get(t.BackendID)
	if err != nil {
		return err
	}
	if err := b.CompleteTask(ctx, t.RemoteID); err != nil {
		return err
	}

	t.IsCompleted = true
	return m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).Upsert(ctx, t)
	})
}

func (m *mutationService) CreateLabel(ctx context.Context, in CreateLabelInput) (result *domain.Label, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "create_label", start, err, map[string]any{"backend_id": in.BackendID}) }()

	b, err := m.registry.Get(in.BackendID)
	if err != nil {
		return nil, err
	}
	remote, err := b.CreateLabel(ctx, backend.CreateLabelArgs{
		Name:       in.Name,
		Color:      in.Color,
		IsFavorite: in.IsFavorite,
	})
	if err != nil {
		return nil, err
	}

	l := &domain.Label{
		BackendID:  in.BackendID,
		RemoteID:   remote.RemoteID,
		Name:       remote.Name,
		Color:      remote.Color,
		OrderIndex: remote.OrderIndex,
		IsFavorite: remote.IsFavorite,
	}
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLabelRepo(tx).Upsert(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (m *mutationService) UpdateLabel(ctx context.Context, id string, in UpdateLabelInput) (result *domain.Label, err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "update_label", start, err, map[string]any{"label_id": id}) }()

	l, err := repository.NewSQLiteLabelRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := m.registry.Get(l.BackendID)
	if err != nil {
		return nil, err
	}

	remote, err := b.UpdateLabel(ctx, l.RemoteID, backend.UpdateLabelArgs{
		Name:       in.Name,
		Color:      in.Color,
		IsFavorite: in.IsFavorite,
	})
	if err != nil {
		return nil, err
	}

	l.Name = remote.Name
	l.Color = remote.Color
	l.IsFavorite = remote.IsFavorite
	err = m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLabelRepo(tx).Upsert(ctx, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (m *mutationService) DeleteLabel(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { m.observe(ctx, "delete_label", start, err, map[string]any{"label_id": id}) }()

	l, err := repository.NewSQLiteLabelRepo(m.database).GetByID(ctx, id)
	if err != nil {
		return err
	}
	b, err := m.registry.Get(l.BackendID)
	if err != nil {
		return err
	}
	if err := b.DeleteLabel(ctx, l.RemoteID); err != nil {
		return err
	}
	return m.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLabelRepo(tx).Delete(ctx, id)
	})
}
