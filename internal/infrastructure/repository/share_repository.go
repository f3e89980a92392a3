package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// ShareRepository is the SQLite implementation of the share grant store.
type ShareRepository struct {
	db *sql.DB
}

// NewShareRepository creates a share repository on an open database.
func NewShareRepository(db *sql.DB) *ShareRepository {
	return &ShareRepository{db: db}
}

// Upsert replaces any existing grant for the same (file, grantee) pair,
// so re-sharing with a different permission just rewrites the row.
func (r *ShareRepository) Upsert(ctx context.Context, grant *entities.ShareGrant) error {
	sharedAt := grant.SharedAt
	if sharedAt.IsZero() {
		sharedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO file_shares (file_id, grantee_id, permission, shared_at)
		VALUES (?, ?, ?, ?)`,
		grant.FileID, grant.GranteeID, grant.Permission, sharedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert share grant: %w", err)
	}
	return nil
}

func (r *ShareRepository) Get(ctx context.Context, fileID, granteeID int64) (*entities.ShareGrant, error) {
	var grant entities.ShareGrant
	err := r.db.QueryRowContext(ctx, `
		SELECT file_id, grantee_id, permission, shared_at
		FROM file_shares WHERE file_id = ? AND grantee_id = ?`,
		fileID, granteeID,
	).Scan(&grant.FileID, &grant.GranteeID, &grant.Permission, &grant.SharedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load share grant: %w", err)
	}
	return &grant, nil
}

func (r *ShareRepository) ListByFile(ctx context.Context, fileID int64) ([]*entities.ShareGrant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT file_id, grantee_id, permission, shared_at
		FROM file_shares WHERE file_id = ? ORDER BY shared_at`,
		fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list share grants: %w", err)
	}
	defer rows.Close()

	var grants []*entities.ShareGrant
	for rows.Next() {
		var grant entities.ShareGrant
		if err := rows.Scan(&grant.FileID, &grant.GranteeID, &grant.Permission, &grant.SharedAt); err != nil {
			return nil, err
		}
		grants = append(grants, &grant)
	}
	return grants, rows.Err()
}

func (r *ShareRepository) DeleteByFile(ctx context.Context, fileID int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM file_shares WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("failed to delete share grants: %w", err)
	}
	return nil
}
