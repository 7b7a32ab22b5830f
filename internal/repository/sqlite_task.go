package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/google/uuid"
)

const taskColumns = `id, backend_id, remote_id, content, description,
		project_id, section_id, parent_id, priority, order_index,
		due_date, due_datetime, is_recurring, is_completed, created_at, updated_at`

// listOrder is the stable ordering for plain task listings.
const listOrder = ` ORDER BY order_index, id`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) List(ctx context.Context, backendID string, filter TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE backend_id = ?`
	args := []any{backendID}

	if filter.ProjectID != "" {
		query += ` AND project_id = ?`
		args = append(args, filter.ProjectID)
	}
	if filter.SectionID != "" {
		query += ` AND section_id = ?`
		args = append(args, filter.SectionID)
	}
	if filter.LabelName != "" {
		query += ` AND id IN (SELECT tl.task_id FROM task_labels tl
			JOIN labels l ON l.id = tl.label_id WHERE l.name = ?)`
		args = append(args, filter.LabelName)
	}
	if filter.PendingOnly {
		query += ` AND is_completed = 0`
	}
	query += listOrder

	return r.list(ctx, query, args...)
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row.Scan)
	if err != nil {
		return nil, err
	}
	if err := r.loadLabels(ctx, []*domain.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Task, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE backend_id = ? AND remote_id = ?`,
		backendID, remoteID)
	t, err := scanTask(row.Scan)
	if err != nil {
		return nil, err
	}
	if err := r.loadLabels(ctx, []*domain.Task{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// Search matches the query as a case-insensitive substring of task content.
// Results order pending before completed, then priority high to low, then
// the user's manual order.
func (r *SQLiteTaskRepo) Search(ctx context.Context, backendID, query string) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE backend_id = ? AND instr(lower(content), lower(?)) > 0
		ORDER BY is_completed ASC, priority DESC, order_index ASC`,
		backendID, query)
}

// ListDueBy returns pending tasks due on or before the given date, overdue
// first.
func (r *SQLiteTaskRepo) ListDueBy(ctx context.Context, backendID, date string) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE backend_id = ? AND is_completed = 0
		  AND due_date IS NOT NULL AND due_date <= ?
		ORDER BY
		  CASE WHEN due_date < ? THEN 0 ELSE 1 END,
		  priority DESC,
		  order_index ASC`,
		backendID, date, date)
}

// ListDueOn returns pending tasks due exactly on the given date.
func (r *SQLiteTaskRepo) ListDueOn(ctx context.Context, backendID, date string) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE backend_id = ? AND is_completed = 0
		  AND due_date IS NOT NULL AND due_date = ?
		ORDER BY priority DESC, order_index ASC`,
		backendID, date)
}

// ListDueBetween returns pending tasks due inside [from, to], chronological,
// overdue-relative ordering handled by the caller's choice of from.
func (r *SQLiteTaskRepo) ListDueBetween(ctx context.Context, backendID, from, to string) ([]*domain.Task, error) {
	return r.list(ctx,
		`SELECT `+taskColumns+` FROM tasks
		WHERE backend_id = ? AND is_completed = 0
		  AND due_date IS NOT NULL AND due_date >= ? AND due_date <= ?
		ORDER BY due_date ASC, priority DESC, order_index ASC`,
		backendID, from, to)
}

// ReplaceAll swaps the backend's task snapshot, preserving local IDs for
// surviving remote_ids and rebuilding the task-label associations.
func (r *SQLiteTaskRepo) ReplaceAll(ctx context.Context, backendID string, tasks []*domain.Task) error {
	existing, err := remoteIDMap(ctx, r.db, "tasks", backendID)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_labels WHERE task_id IN
			(SELECT id FROM tasks WHERE backend_id = ?)`, backendID); err != nil {
		return fmt.Errorf("clearing task label links: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE backend_id = ?`, backendID); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}

	now := nowUTC()
	for _, t := range tasks {
		if t.ID == "" {
			if id, ok := existing[t.RemoteID]; ok {
				t.ID = id
			} else {
				t.ID = uuid.New().String()
			}
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, backendID, t.RemoteID, t.Content, t.Description,
			t.ProjectID, nullableString(t.SectionID), nullableString(t.ParentID),
			int(t.Priority), t.OrderIndex,
			nullableString(t.DueDate), nullableString(t.DueDatetime),
			boolToInt(t.IsRecurring), boolToInt(t.IsCompleted), now, now); err != nil {
			return fmt.Errorf("inserting task %q: %w", t.RemoteID, err)
		}
		if err := r.writeLabels(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) Upsert(ctx context.Context, t *domain.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := r.checkSection(ctx, t); err != nil {
		return err
	}
	now := nowUTC()
	query := `INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			content = excluded.content,
			description = excluded.description,
			project_id = excluded.project_id,
			section_id = excluded.section_id,
			parent_id = excluded.parent_id,
			priority = excluded.priority,
			order_index = excluded.order_index,
			due_date = excluded.due_date,
			due_datetime = excluded.due_datetime,
			is_recurring = excluded.is_recurring,
			is_completed = excluded.is_completed,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.BackendID, t.RemoteID, t.Content, t.Description,
		t.ProjectID, nullableString(t.SectionID), nullableString(t.ParentID),
		int(t.Priority), t.OrderIndex,
		nullableString(t.DueDate), nullableString(t.DueDatetime),
		boolToInt(t.IsRecurring), boolToInt(t.IsCompleted), now, now)
	if err != nil {
		return fmt.Errorf("upserting task: %w", err)
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_labels WHERE task_id = ?`, t.ID); err != nil {
		return fmt.Errorf("clearing task label links: %w", err)
	}
	return r.writeLabels(ctx, t)
}

// Delete removes the task, its subtasks (depth-first) and their label links.
func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM tasks WHERE parent_id = ?`, id)
	if err != nil {
		return fmt.Errorf("listing subtasks: %w", err)
	}
	var children []string
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return fmt.Errorf("scanning subtask: %w", err)
		}
		children = append(children, cid)
	}
	rows.Close()
	for _, cid := range children {
		if err := r.Delete(ctx, cid); err != nil {
			return err
		}
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_labels WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("deleting task label links: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return nil
}

// checkSection rejects a task whose section belongs to a different project.
func (r *SQLiteTaskRepo) checkSection(ctx context.Context, t *domain.Task) error {
	if t.SectionID == nil {
		return nil
	}
	var sectionProject string
	err := r.db.QueryRowContext(ctx,
		`SELECT project_id FROM sections WHERE id = ?`, *t.SectionID).Scan(&sectionProject)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: task references missing section %s", domain.ErrStorage, *t.SectionID)
	}
	if err != nil {
		return fmt.Errorf("checking section reference: %w", err)
	}
	if sectionProject != t.ProjectID {
		return fmt.Errorf("%w: task project %s does not match section project %s",
			domain.ErrStorage, t.ProjectID, sectionProject)
	}
	return nil
}

// writeLabels inserts the task's label associations, resolving names against
// the backend's labels. Names without a matching label row are skipped so a
// half-synced label set never produces dangling links.
func (r *SQLiteTaskRepo) writeLabels(ctx context.Context, t *domain.Task) error {
	for _, name := range t.Labels {
		var labelID string
		err := r.db.QueryRowContext(ctx,
			`SELECT id FROM labels WHERE backend_id = ? AND name = ?`,
			t.BackendID, name).Scan(&labelID)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return fmt.Errorf("resolving label %q: %w", name, err)
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)`,
			t.ID, labelID); err != nil {
			return fmt.Errorf("linking label %q: %w", name, err)
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	if err := r.loadLabels(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// loadLabels fills in label names for the given tasks in one query.
func (r *SQLiteTaskRepo) loadLabels(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	byID := make(map[string]*domain.Task, len(tasks))
	placeholders := make([]string, 0, len(tasks))
	args := make([]any, 0, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
		placeholders = append(placeholders, "?")
		args = append(args, t.ID)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT tl.task_id, l.name FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id IN (`+strings.Join(placeholders, ",")+`)
		ORDER BY l.order_index, l.name`, args...)
	if err != nil {
		return fmt.Errorf("loading task labels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, name string
		if err := rows.Scan(&taskID, &name); err != nil {
			return fmt.Errorf("scanning task label: %w", err)
		}
		if t, ok := byID[taskID]; ok {
			t.Labels = append(t.Labels, name)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating task labels: %w", err)
	}
	return nil
}

func scanTask(scan func(dest ...any) error) (*domain.Task, error) {
	var t domain.Task
	var remoteID, sectionID, parentID, dueDate, dueDatetime sql.NullString
	var priority, isRecurring, isCompleted int
	var createdAtStr, updatedAtStr string

	err := scan(&t.ID, &t.BackendID, &remoteID, &t.Content, &t.Description,
		&t.ProjectID, &sectionID, &parentID, &priority, &t.OrderIndex,
		&dueDate, &dueDatetime, &isRecurring, &isCompleted,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}

	t.RemoteID = remoteID.String
	t.SectionID = fromNullString(sectionID)
	t.ParentID = fromNullString(parentID)
	t.Priority = domain.Priority(priority)
	t.DueDate = fromNullString(dueDate)
	t.DueDatetime = fromNullString(dueDatetime)
	t.IsRecurring = intToBool(isRecurring)
	t.IsCompleted = intToBool(isCompleted)

	var parseErr error
	t.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	t.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &t, nil
}
