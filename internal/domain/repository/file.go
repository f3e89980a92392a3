package repository

import (
	"context"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// FileRepository persists file metadata rows.
type FileRepository interface {
	Create(ctx context.Context, file *entities.File) (*entities.File, error)
	GetByID(ctx context.Context, id int64) (*entities.File, error)
	Update(ctx context.Context, id int64, update entities.FileUpdate) error
	Delete(ctx context.Context, id int64) error
	IncrementDownloadCount(ctx context.Context, id int64) error
	SetShared(ctx context.Context, id int64, shared bool) error

	// ListAccessible returns files the user owns, public files, and
	// files shared with the user, filtered and paginated, together with
	// the total match count.
	ListAccessible(ctx context.Context, userID int64, filter entities.FileFilter, page entities.FilePage) ([]*entities.File, int, error)

	// SumSizeByOwner returns the total bytes of all files the user owns.
	// Used to verify the quota ledger against the ground truth.
	SumSizeByOwner(ctx context.Context, ownerID int64) (int64, error)
}
