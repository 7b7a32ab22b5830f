package service

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/taskline/internal/backend"
	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/repository"
	"github.com/google/uuid"
)

// DefaultStaleAfter is the staleness threshold applied when none is
// configured.
const DefaultStaleAfter = 5 * time.Minute

type syncService struct {
	registry   *backend.Registry
	database   *sql.DB
	uow        db.UnitOfWork
	observer   OpObserver
	staleAfter time.Duration

	// mu guards the cycle flag and the last-outcome fields. The flag is
	// the sole concurrency control between overlapping sync triggers.
	mu         sync.Mutex
	inProgress bool
	lastSyncAt time.Time
	lastState  domain.SyncState
	lastMsg    string
}

// NewSyncService creates the sync orchestrator. staleAfter <= 0 selects
// DefaultStaleAfter.
func NewSyncService(registry *backend.Registry, database *sql.DB, uow db.UnitOfWork, staleAfter time.Duration, observers ...OpObserver) SyncService {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	return &syncService{
		registry:   registry,
		database:   database,
		uow:        uow,
		observer:   opObserverOrNoop(observers),
		staleAfter: staleAfter,
		lastState:  domain.SyncIdle,
	}
}

func (s *syncService) Sync(ctx context.Context, backendID string) SyncOutcome {
	s.mu.Lock()
	if s.inProgress {
		s.mu.Unlock()
		// Dropped, not queued: the running cycle's result stands.
		return SyncOutcome{State: domain.SyncInFlight, Message: "sync already in progress"}
	}
	s.inProgress = true
	s.lastState = domain.SyncInFlight
	s.mu.Unlock()

	start := time.Now()
	outcome := s.performSync(ctx, backendID)

	s.mu.Lock()
	s.inProgress = false
	s.lastState = outcome.State
	s.lastMsg = outcome.Message
	if outcome.State == domain.SyncSucceeded {
		s.lastSyncAt = time.Now().UTC()
	}
	s.mu.Unlock()

	s.observer.ObserveOp(ctx, OpEvent{
		Name:      "sync_cycle",
		Duration:  time.Since(start),
		Success:   outcome.State == domain.SyncSucceeded,
		StartedAt: start,
		Fields: map[string]any{
			"backend_id": backendID,
			"labels":     outcome.Labels,
			"projects":   outcome.Projects,
			"sections":   outcome.Sections,
			"tasks":      outcome.Tasks,
			"message":    outcome.Message,
		},
	})
	return outcome
}

// performSync runs one full-refresh cycle: labels and projects first
// (independent of each other), then sections, then tasks. Each type's
// snapshot replace commits in its own transaction, so a failure on a later
// type leaves earlier commits in place until the next successful cycle.
func (s *syncService) performSync(ctx context.Context, backendID string) SyncOutcome {
	b, err := s.registry.Get(backendID)
	if err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("resolving backend: %w", err))
	}

	var outcome SyncOutcome

	// Labels.
	remoteLabels, err := b.FetchLabels(ctx)
	if err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("fetching labels: %w", err))
	}
	labels, err := s.convertLabels(ctx, backendID, remoteLabels)
	if err != nil {
		return s.fail(ctx, backendID, err)
	}
	if err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteLabelRepo(tx).ReplaceAll(ctx, backendID, labels)
	}); err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("storing labels: %w", err))
	}
	outcome.Labels = len(labels)

	// Projects.
	remoteProjects, err := b.FetchProjects(ctx)
	if err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("fetching projects: %w", err))
	}
	projects, projMap, err := s.convertProjects(ctx, backendID, remoteProjects)
	if err != nil {
		return s.fail(ctx, backendID, err)
	}
	if err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteProjectRepo(tx).ReplaceAll(ctx, backendID, projects)
	}); err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("storing projects: %w", err))
	}
	outcome.Projects = len(projects)

	// Sections depend on projects.
	remoteSections, err := b.FetchSections(ctx)
	if err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("fetching sections: %w", err))
	}
	sections, secMap, secProject, err := s.convertSections(ctx, backendID, remoteSections, projMap)
	if err != nil {
		return s.fail(ctx, backendID, err)
	}
	if err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteSectionRepo(tx).ReplaceAll(ctx, backendID, sections)
	}); err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("storing sections: %w", err))
	}
	outcome.Sections = len(sections)

	// Tasks depend on projects and sections.
	remoteTasks, err := b.FetchTasks(ctx)
	if err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("fetching tasks: %w", err))
	}
	tasks, err := s.convertTasks(ctx, backendID, remoteTasks, projMap, secMap, secProject)
	if err != nil {
		return s.fail(ctx, backendID, err)
	}
	if err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).ReplaceAll(ctx, backendID, tasks)
	}); err != nil {
		return s.fail(ctx, backendID, fmt.Errorf("storing tasks: %w", err))
	}
	outcome.Tasks = len(tasks)

	now := time.Now().UTC().Format(time.RFC3339)
	if err := repository.NewSQLiteBackendRepo(s.database).UpdateSyncStatus(ctx, backendID, &now, nil); err != nil {
		return s.fail(ctx, backendID, err)
	}

	outcome.State = domain.SyncSucceeded
	return outcome
}

func (s *syncService) fail(ctx context.Context, backendID string, err error) SyncOutcome {
	msg := err.Error()
	// Best effort: the cycle error is already the outcome.
	_ = repository.NewSQLiteBackendRepo(s.database).UpdateSyncStatus(ctx, backendID, nil, &msg)
	return SyncOutcome{State: domain.SyncFailed, Message: msg}
}

// convertLabels maps remote labels onto domain labels, preserving local IDs
// for remote_ids already cached.
func (s *syncService) convertLabels(ctx context.Context, backendID string, remote []backend.RemoteLabel) ([]*domain.Label, error) {
	existing, err := repository.NewSQLiteLabelRepo(s.database).List(ctx, backendID)
	if err != nil {
		return nil, err
	}
	byRemote := make(map[string]string, len(existing))
	for _, l := range existing {
		byRemote[l.RemoteID] = l.ID
	}

	labels := make([]*domain.Label, 0, len(remote))
	for _, rl := range remote {
		labels = append(labels, &domain.Label{
			ID:         byRemote[rl.RemoteID],
			BackendID:  backendID,
			RemoteID:   rl.RemoteID,
			Name:       rl.Name,
			Color:      rl.Color,
			OrderIndex: rl.OrderIndex,
			IsFavorite: rl.IsFavorite,
		})
	}
	return labels, nil
}

// convertProjects assigns local IDs up front so parent references can be
// resolved within the fetched set. Returns the remote->local ID map.
func (s *syncService) convertProjects(ctx context.Context, backendID string, remote []backend.RemoteProject) ([]*domain.Project, map[string]string, error) {
	existing, err := repository.NewSQLiteProjectRepo(s.database).List(ctx, backendID)
	if err != nil {
		return nil, nil, err
	}
	byRemote := make(map[string]string, len(existing))
	for _, p := range existing {
		byRemote[p.RemoteID] = p.ID
	}

	idOf := make(map[string]string, len(remote))
	for _, rp := range remote {
		if id, ok := byRemote[rp.RemoteID]; ok {
			idOf[rp.RemoteID] = id
		} else {
			idOf[rp.RemoteID] = uuid.New().String()
		}
	}

	projects := make([]*domain.Project, 0, len(remote))
	for _, rp := range remote {
		p := &domain.Project{
			ID:         idOf[rp.RemoteID],
			BackendID:  backendID,
			RemoteID:   rp.RemoteID,
			Name:       rp.Name,
			Color:      rp.Color,
			IsFavorite: rp.IsFavorite,
			IsInbox:    rp.IsInbox,
			OrderIndex: rp.OrderIndex,
		}
		if rp.ParentRemoteID != nil {
			if pid, ok := idOf[*rp.ParentRemoteID]; ok {
				p.ParentID = &pid
			}
		}
		projects = append(projects, p)
	}
	return projects, idOf, nil
}

// convertSections resolves each section's project. Sections whose project is
// absent from the fetched set are dropped; they would dangle once committed.
// Returns the remote->local ID map and the section->project assignment used
// for the task invariant check.
func (s *syncService) convertSections(ctx context.Context, backendID string, remote []backend.RemoteSection, projMap map[string]string) ([]*domain.Section, map[string]string, map[string]string, error) {
	existing, err := repository.NewSQLiteSectionRepo(s.database).List(ctx, backendID)
	if err != nil {
		return nil, nil, nil, err
	}
	byRemote := make(map[string]string, len(existing))
	for _, sec := range existing {
		byRemote[sec.RemoteID] = sec.ID
	}

	sections := make([]*domain.Section, 0, len(remote))
	idOf := make(map[string]string, len(remote))
	secProject := make(map[string]string, len(remote))
	for _, rs := range remote {
		projectID, ok := projMap[rs.ProjectRemoteID]
		if !ok {
			continue
		}
		id := byRemote[rs.RemoteID]
		if id == "" {
			id = uuid.New().String()
		}
		idOf[rs.RemoteID] = id
		secProject[id] = projectID
		sections = append(sections, &domain.Section{
			ID:         id,
			BackendID:  backendID,
			RemoteID:   rs.RemoteID,
			Name:       rs.Name,
			ProjectID:  projectID,
			OrderIndex: rs.OrderIndex,
		})
	}
	return sections, idOf, secProject, nil
}

// convertTasks resolves project, section and parent references. Tasks whose
// project is unknown are dropped; a section reference pointing outside the
// task's project is cleared to hold the section/project agreement invariant.
func (s *syncService) convertTasks(ctx context.Context, backendID string, remote []backend.RemoteTask, projMap, secMap, secProject map[string]string) ([]*domain.Task, error) {
	existing, err := repository.NewSQLiteTaskRepo(s.database).List(ctx, backendID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	byRemote := make(map[string]string, len(existing))
	for _, t := range existing {
		byRemote[t.RemoteID] = t.ID
	}

	idOf := make(map[string]string, len(remote))
	for _, rt := range remote {
		if id, ok := byRemote[rt.RemoteID]; ok {
			idOf[rt.RemoteID] = id
		} else {
			idOf[rt.RemoteID] = uuid.New().String()
		}
	}

	tasks := make([]*domain.Task, 0, len(remote))
	for _, rt := range remote {
		projectID, ok := projMap[rt.ProjectRemoteID]
		if !ok {
			continue
		}
		t := &domain.Task{
			ID:          idOf[rt.RemoteID],
			BackendID:   backendID,
			RemoteID:    rt.RemoteID,
			Content:     rt.Content,
			Description: rt.Description,
			ProjectID:   projectID,
			Priority:    domain.Priority(rt.Priority).Clamp(),
			OrderIndex:  rt.OrderIndex,
			DueDate:     rt.DueDate,
			DueDatetime: rt.DueDatetime,
			IsRecurring: rt.IsRecurring,
			IsCompleted: rt.IsCompleted,
			Labels:      rt.Labels,
		}
		if rt.SectionRemoteID != nil {
			if sid, ok := secMap[*rt.SectionRemoteID]; ok && secProject[sid] == projectID {
				t.SectionID = &sid
			}
		}
		if rt.ParentRemoteID != nil {
			if pid, ok := idOf[*rt.ParentRemoteID]; ok {
				t.ParentID = &pid
			}
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (s *syncService) SyncInBackground(backendID string) {
	go s.Sync(context.Background(), backendID)
}

func (s *syncService) IsSyncing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress
}

func (s *syncService) Status() (domain.SyncState, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastState, s.lastMsg
}

func (s *syncService) LastSyncAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSyncAt
}

func (s *syncService) IsStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastSyncAt.IsZero() {
		return true
	}
	return time.Since(s.lastSyncAt) > s.staleAfter
}

func (s *syncService) StartAutoSync(ctx context.Context, backendID string, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sync(ctx, backendID)
			}
		}
	}()
}
