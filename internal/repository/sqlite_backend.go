package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taskline/internal/db"
	"github.com/alexanderramin/taskline/internal/domain"
)

const backendColumns = `id, backend_type, name, token_env, enabled,
		last_sync_at, last_sync_error, created_at, updated_at`

// SQLiteBackendRepo implements BackendRepo using a SQLite database.
type SQLiteBackendRepo struct {
	db db.DBTX
}

// NewSQLiteBackendRepo creates a new SQLiteBackendRepo.
func NewSQLiteBackendRepo(conn db.DBTX) *SQLiteBackendRepo {
	return &SQLiteBackendRepo{db: conn}
}

func (r *SQLiteBackendRepo) Upsert(ctx context.Context, b *domain.Backend) error {
	now := nowUTC()
	query := `INSERT INTO backends (id, backend_type, name, token_env, enabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			backend_type = excluded.backend_type,
			name = excluded.name,
			token_env = excluded.token_env,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, string(b.Type), b.Name, b.TokenEnv, boolToInt(b.Enabled), now, now)
	if err != nil {
		return fmt.Errorf("upserting backend: %w", err)
	}
	return nil
}

func (r *SQLiteBackendRepo) GetByID(ctx context.Context, id string) (*domain.Backend, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+backendColumns+` FROM backends WHERE id = ?`, id)
	return scanBackend(row.Scan)
}

func (r *SQLiteBackendRepo) List(ctx context.Context) ([]*domain.Backend, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+backendColumns+` FROM backends ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing backends: %w", err)
	}
	defer rows.Close()

	var backends []*domain.Backend
	for rows.Next() {
		b, err := scanBackend(rows.Scan)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backends: %w", err)
	}
	return backends, nil
}

func (r *SQLiteBackendRepo) UpdateSyncStatus(ctx context.Context, id string, syncedAt *string, syncErr *string) error {
	query := `UPDATE backends SET last_sync_at = COALESCE(?, last_sync_at),
		last_sync_error = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query,
		nullableString(syncedAt), nullableString(syncErr), nowUTC(), id)
	if err != nil {
		return fmt.Errorf("updating backend sync status: %w", err)
	}
	return nil
}

func scanBackend(scan func(dest ...any) error) (*domain.Backend, error) {
	var b domain.Backend
	var typeStr, createdAtStr, updatedAtStr string
	var enabled int
	var lastSyncStr, lastErrStr sql.NullString

	err := scan(&b.ID, &typeStr, &b.Name, &b.TokenEnv, &enabled,
		&lastSyncStr, &lastErrStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("backend: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning backend: %w", err)
	}

	b.Type = domain.BackendType(typeStr)
	b.Enabled = intToBool(enabled)
	b.LastSyncAt = parseNullableTime(lastSyncStr)
	b.LastSyncError = fromNullString(lastErrStr)

	var parseErr error
	b.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	b.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &b, nil
}
