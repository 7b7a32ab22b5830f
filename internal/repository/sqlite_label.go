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

const labelColumns = `id, backend_id, remote_id, name, color, order_index, is_favorite`

// SQLiteLabelRepo implements LabelRepo using a SQLite database.
type SQLiteLabelRepo struct {
	db db.DBTX
}

// NewSQLiteLabelRepo creates a new SQLiteLabelRepo.
func NewSQLiteLabelRepo(conn db.DBTX) *SQLiteLabelRepo {
	return &SQLiteLabelRepo{db: conn}
}

func (r *SQLiteLabelRepo) List(ctx context.Context, backendID string) ([]*domain.Label, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE backend_id = ?
		ORDER BY order_index, id`, backendID)
	if err != nil {
		return nil, fmt.Errorf("listing labels: %w", err)
	}
	defer rows.Close()

	var labels []*domain.Label
	for rows.Next() {
		l, err := scanLabel(rows.Scan)
		if err != nil {
			return nil, err
		}
		labels = append(labels, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating labels: %w", err)
	}
	return labels, nil
}

func (r *SQLiteLabelRepo) GetByID(ctx context.Context, id string) (*domain.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE id = ?`, id)
	return scanLabel(row.Scan)
}

func (r *SQLiteLabelRepo) GetByRemoteID(ctx context.Context, backendID, remoteID string) (*domain.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE backend_id = ? AND remote_id = ?`,
		backendID, remoteID)
	return scanLabel(row.Scan)
}

func (r *SQLiteLabelRepo) GetByName(ctx context.Context, backendID, name string) (*domain.Label, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+labelColumns+` FROM labels WHERE backend_id = ? AND name = ?`,
		backendID, name)
	return scanLabel(row.Scan)
}

// ReplaceAll swaps the backend's label snapshot, preserving local IDs for
// surviving remote_ids so task_labels rows written later still resolve.
func (r *SQLiteLabelRepo) ReplaceAll(ctx context.Context, backendID string, labels []*domain.Label) error {
	existing, err := remoteIDMap(ctx, r.db, "labels", backendID)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM labels WHERE backend_id = ?`, backendID); err != nil {
		return fmt.Errorf("clearing labels: %w", err)
	}

	for _, l := range labels {
		if l.ID == "" {
			if id, ok := existing[l.RemoteID]; ok {
				l.ID = id
			} else {
				l.ID = uuid.New().String()
			}
		}
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO labels (`+labelColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, backendID, l.RemoteID, l.Name, l.Color, l.OrderIndex,
			boolToInt(l.IsFavorite)); err != nil {
			return fmt.Errorf("inserting label %q: %w", l.RemoteID, err)
		}
	}
	return nil
}

func (r *SQLiteLabelRepo) Upsert(ctx context.Context, l *domain.Label) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `INSERT INTO labels (` + labelColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			remote_id = excluded.remote_id,
			name = excluded.name,
			color = excluded.color,
			order_index = excluded.order_index,
			is_favorite = excluded.is_favorite`
	_, err := r.db.ExecContext(ctx, query,
		l.ID, l.BackendID, l.RemoteID, l.Name, l.Color, l.OrderIndex,
		boolToInt(l.IsFavorite))
	if err != nil {
		return fmt.Errorf("upserting label: %w", err)
	}
	return nil
}

// Delete removes the label and its task associations.
func (r *SQLiteLabelRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM task_labels WHERE label_id = ?`, id); err != nil {
		return fmt.Errorf("deleting task label links: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM labels WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting label: %w", err)
	}
	return nil
}

func scanLabel(scan func(dest ...any) error) (*domain.Label, error) {
	var l domain.Label
	var remoteID sql.NullString
	var isFavorite int

	err := scan(&l.ID, &l.BackendID, &remoteID, &l.Name, &l.Color,
		&l.OrderIndex, &isFavorite)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("label: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning label: %w", err)
	}
	l.RemoteID = remoteID.String
	l.IsFavorite = intToBool(isFavorite)
	return &l, nil
}
