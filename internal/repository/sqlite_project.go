package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/google/uuid"
)

const projectColumns = `id, backend_id, remote_id, name, color, is_favorite,
		is_inbox, order_index, parent_id, created_at, updated_at`

// SQLiteProjectRepo implements ProjectRepo using a SQLite database.
// Multi-statement operations (ReplaceAll, cascading Delete) are atomic only
// when the repo is constructed over a transaction; services run them inside
// a UnitOfWork.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(conn db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: conn}
}

func (r *SQLiteProjectRepo) List(ctx context.Context, backendID string) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE backend_id = ?
		ORDER BY order_index, id`, backendID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows.Scan)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	return scanProject(row.Scan)
}

func (r *SQLiteProjectRepo) GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE backend_id = ? AND remote_id = ?`,
		backendID, remoteID)
	return scanProject(row.Scan)
}

// ReplaceAll swaps the backend's project snapshot for the given set. Local
// IDs are preserved for rows whose remote_id survives the swap so that
// identifiers held by callers stay valid across sync cycles.
func (r *SQLiteProjectRepo) ReplaceAll(ctx context.Context, backendID string, projects []*domain.Project) error {
	existing, err := remoteIDMap(ctx, r.db, "projects", backendID)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE backend_id = ?`, backendID); err != nil {
		return fmt.Errorf("clearing projects: %w", err)
	}

	now := nowUTC()
	for _, p := range projects {
		if p.ID == "" {
			if id, ok := existing[p.RemoteID]; ok {
				p.ID = id
			} else {
				p.ID = uuid.New().String()
			}
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO projects (`+projectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID, backendID, p.RemoteID, p.Name, p.Color,
			boolToInt(p.IsFavorite), boolToInt(p.IsInbox), p.OrderIndex,
			nullableString(p.ParentID), now, now); err != nil {
			return fmt.Errorf("inserting project %q: %w", p.RemoteID, err)
		}
	}
	return nil
}

func (r *SQLiteProjectRepo) Upsert(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := nowUTC()
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			name = excluded.name,
			color = excluded.color,
			is_favorite = excluded.is_favorite,
			is_inbox = excluded.is_inbox,
			order_index = excluded.order_index,
			parent_id = excluded.parent_id,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.BackendID, p.RemoteID, p.Name, p.Color,
		boolToInt(p.IsFavorite), boolToInt(p.IsInbox), p.OrderIndex,
		nullableString(p.ParentID), now, now)
	if err != nil {
		return fmt.Errorf("upserting project: %w", err)
	}
	return nil
}

// Delete removes the project and, depth-first, its child projects, sections,
// tasks and task-label associations.
func (r *SQLiteProjectRepo) Delete(ctx context.Context, id string) error {
	// Recurse into child projects first.
	rows, err := r.db.QueryContext(ctx,
		`SELECT id FROM projects WHERE parent_id = ?`, id)
	if err != nil {
		return fmt.Errorf("listing child projects: %w", err)
	}
	var children []string
	for rows.Next() {
		var cid string
		if err := rows.Scan(&cid); err != nil {
			rows.Close()
			return fmt.Errorf("scanning child project: %w", err)
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
		`DELETE FROM task_labels WHERE task_id IN
			(SELECT id FROM tasks WHERE project_id = ?)`, id); err != nil {
		return fmt.Errorf("deleting task label links: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("deleting project tasks: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sections WHERE project_id = ?`, id); err != nil {
		return fmt.Errorf("deleting project sections: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

func scanProject(scan func(dest ...any) error) (*domain.Project, error) {
	var p domain.Project
	var remoteID, parentID sql.NullString
	var isFavorite, isInbox int
	var createdAtStr, updatedAtStr string

	err := scan(&p.ID, &p.BackendID, &remoteID, &p.Name, &p.Color,
		&isFavorite, &isInbox, &p.OrderIndex, &parentID,
		&createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}

	p.RemoteID = remoteID.String
	p.IsFavorite = intToBool(isFavorite)
	p.IsInbox = intToBool(isInbox)
	p.ParentID = fromNullString(parentID)

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}

// remoteIDMap loads the remote_id -> local id mapping for one backend's rows
// in the named table. Shared by the ReplaceAll implementations.
func remoteIDMap(ctx context.Context, conn db.DBTX, table, backendID string) (map[string]string, error) {
	rows, err := conn.QueryContext(ctx,
		`SELECT remote_id, id FROM `+table+` WHERE backend_id = ? AND remote_id IS NOT NULL`,
		backendID)
	if err != nil {
		return nil, fmt.Errorf("loading %s remote ids: %w", table, err)
	}
	defer rows.Close()

	m := make(map[string]string)
	for rows.Next() {
		var remoteID, id string
		if err := rows.Scan(&remoteID, &id); err != nil {
			return nil, fmt.Errorf("scanning %s remote id: %w", table, err)
		}
		m[remoteID] = id
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s remote ids: %w", table, err)
	}
	return m, nil
}
