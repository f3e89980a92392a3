package repository

import (
	"context"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

// UserRepository persists accounts and owns the quota ledger. The quota
// methods are the only writers of users.storage_used.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) (*entities.User, error)
	GetByID(ctx context.Context, id int64) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	UpdateProfile(ctx context.Context, id int64, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	TouchLastLogin(ctx context.Context, id int64) error

	// ReserveQuota atomically adds bytes to the user's storage_used,
	// failing with entities.ErrQuotaExceeded and leaving the counter
	// untouched when the addition would pass storage_limit. The check
	// and the increment are a single statement so concurrent uploads
	// cannot both pass the check.
	ReserveQuota(ctx context.Context, id int64, bytes int64) error

	// ReleaseQuota subtracts bytes from storage_used, flooring at zero.
	ReleaseQuota(ctx context.Context, id int64, bytes int64) error
}
