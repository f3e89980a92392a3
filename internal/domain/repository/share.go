package repository

import (
	"context"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// ShareRepository persists share grants. Grants never outlive their
// file; DeleteByFile runs as part of file deletion.
type ShareRepository interface {
	// Upsert inserts the grant or replaces an existing one for the same
	// (file, grantee) pair.
	Upsert(ctx context.Context, grant *entities.ShareGrant) error

	// Get returns the grant for the pair, or entities.ErrNotFound.
	Get(ctx context.Context, fileID, granteeID int64) (*entities.ShareGrant, error)

	// ListByFile returns all grants on a file.
	ListByFile(ctx context.Context, fileID int64) ([]*entities.ShareGrant, error)

	DeleteByFile(ctx context.Context, fileID int64) error
}
