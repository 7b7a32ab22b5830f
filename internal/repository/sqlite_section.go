package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/google/uuid"
)

const sectionColumns = `id, backend_id, remote_id, name, project_id, order_index`

// SQLiteSectionRepo implements SectionRepo using a SQLite database.
type SQLiteSectionRepo struct {
	db db.DBTX
}

// NewSQLiteSectionRepo creates a new SQLiteSectionRepo.
func NewSQLiteSectionRepo(conn db.DBTX) *SQLiteSectionRepo {
	return &SQLiteSectionRepo{db: conn}
}

func (r *SQLiteSectionRepo) List(ctx context.Context, backendID string) ([]*domain.Section, error) {
	return r.list(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE backend_id = ?
		ORDER BY order_index, id`, backendID)
}

func (r *SQLiteSectionRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.Section, error) {
	return r.list(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE project_id = ?
		ORDER BY order_index, id`, projectID)
}

func (r *SQLiteSectionRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Section, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	defer rows.Close()

	var sections []*domain.Section
	for rows.Next() {
		s, err := scanSection(rows.Scan)
		if err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sections: %w", err)
	}
	return sections, nil
}

func (r *SQLiteSectionRepo) GetByID(ctx context.Context, id string) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE id = ?`, id)
	return scanSection(row.Scan)
}

func (r *SQLiteSectionRepo) GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Section, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sectionColumns+` FROM sections WHERE backend_id = ? AND remote_id = ?`,
		backendID, remoteID)
	return scanSection(row.Scan)
}

// ReplaceAll swaps the backend's section snapshot, preserving local IDs for
// surviving remote_ids.
func (r *SQLiteSectionRepo) ReplaceAll(ctx context.Context, backendID string, sections []*domain.Section) error {
	existing, err := remoteIDMap(ctx, r.db, "sections", backendID)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sections WHERE backend_id = ?`, backendID); err != nil {
		return fmt.Errorf("clearing sections: %w", err)
	}

	for _, s := range sections {
		if s.ID == "" {
			if id, ok := existing[s.RemoteID]; ok {
				s.ID = id
			} else {
				s.ID = uuid.New().String()
			}
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO sections (`+sectionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, backendID, s.RemoteID, s.Name, s.ProjectID, s.OrderIndex); err != nil {
			return fmt.Errorf("inserting section %q: %w", s.RemoteID, err)
		}
	}
	return nil
}

func (r *SQLiteSectionRepo) Upsert(ctx context.Context, s *domain.Section) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if err := r.checkProject(ctx, s.ProjectID); err != nil {
		return err
	}
	query := `INSERT INTO sections (` + sectionColumns + `) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			name = excluded.name,
			project_id = excluded.project_id,
			order_index = excluded.order_index`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.BackendID, s.RemoteID, s.Name, s.ProjectID, s.OrderIndex)
	if err != nil {
		return fmt.Errorf("upserting section: %w", err)
	}
	return nil
}

// Delete removes the section together with its tasks and their label links.
func (r *SQLiteSectionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_labels WHERE task_id IN
			(SELECT id FROM tasks WHERE section_id = ?)`, id); err != nil {
		return fmt.Errorf("deleting task label links: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE section_id = ?`, id); err != nil {
		return fmt.Errorf("deleting section tasks: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sections WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting section: %w", err)
	}
	return nil
}

func (r *SQLiteSectionRepo) checkProject(ctx context.Context, projectID string) error {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM projects WHERE id = ?`, projectID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: section references missing project %s", domain.ErrStorage, projectID)
	}
	if err != nil {
		return fmt.Errorf("checking project reference: %w", err)
	}
	return nil
}

func scanSection(scan func(dest ...any) error) (*domain.Section, error) {
	var s domain.Section
	var remoteID sql.NullString

	err := scan(&s.ID, &s.BackendID, &remoteID, &s.Name, &s.ProjectID, &s.OrderIndex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("section: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning section: %w", err)
	}
	s.RemoteID = remoteID.String
	return &s, nil
}
