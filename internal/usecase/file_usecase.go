package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/internal/domain/repository"
	"github.com/ekurt/clouddepo/pkg/storage"
)

// Pagination describes the page of a list response.
type Pagination struct {
	Page       int  `json:"current_page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total_files"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// FileUsecase orchestrates the file lifecycle: it combines access
// resolution and the quota ledger with the blob store so that no
// partial failure leaves an orphaned blob or a miscounted quota.
type FileUsecase struct {
	files  repository.FileRepository
	users  repository.UserRepository
	shares repository.ShareRepository
	blobs  storage.BlobStore
	logger *log.Logger
}

// NewFileUsecase creates the file lifecycle manager.
func NewFileUsecase(files repository.FileRepository, users repository.UserRepository, shares repository.ShareRepository, blobs storage.BlobStore) *FileUsecase {
	return &FileUsecase{
		files:  files,
		users:  users,
		shares: shares,
		blobs:  blobs,
		logger: log.New(os.Stdout, "[Files] ", log.LstdFlags),
	}
}

// Upload writes the bytes, reserves quota and records the file row.
// There is no transaction spanning the blob store and the database, so
// every failure after the blob write compensates by deleting the blob,
// and every failure after the reservation also releases the quota.
func (u *FileUsecase) Upload(ctx context.Context, ownerID int64, reader io.Reader, originalName, mimeType string, meta entities.FileUpdate) (*entities.File, error) {
	handle, size, err := u.blobs.Put(reader, originalName)
	if err != nil {
		return nil, fmt.Errorf("failed to store file bytes: %w", err)
	}

	if err := u.users.ReserveQuota(ctx, ownerID, size); err != nil {
		u.cleanupBlob(handle)
		return nil, err
	}

	file, err := u.files.Create(ctx, &entities.File{
		OwnerID:      ownerID,
		OriginalName: originalName,
		StoredPath:   handle,
		MimeType:     mimeType,
		Size:         size,
		Description:  meta.Description,
		Tags:         meta.Tags,
		IsPublic:     meta.IsPublic,
	})
	if err != nil {
		if relErr := u.users.ReleaseQuota(ctx, ownerID, size); relErr != nil {
			u.logger.Printf("Failed to release quota after aborted upload for user %d: %v", ownerID, relErr)
		}
		u.cleanupBlob(handle)
		return nil, fmt.Errorf("failed to record file: %w", err)
	}

	return file, nil
}

// Download resolves access, bumps the download counter and opens the
// bytes. A valid row whose blob is physically gone surfaces as NotFound
// rather than being masked.
func (u *FileUsecase) Download(ctx context.Context, requesterID, fileID int64) (*entities.File, io.ReadCloser, error) {
	file, err := u.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	access, err := u.resolveAccess(ctx, file, requesterID)
	if err != nil {
		return nil, nil, err
	}
	if !access.CanDownload() {
		return nil, nil, entities.ErrForbidden
	}

	if err := u.files.IncrementDownloadCount(ctx, fileID); err != nil {
		return nil, nil, fmt.Errorf("failed to count download: %w", err)
	}

	reader, err := u.blobs.Get(file.StoredPath)
	if err != nil {
		if errors.Is(err, storage.ErrBlobNotFound) {
			u.logger.Printf("File %d has a row but no blob at %s", file.ID, file.StoredPath)
			return nil, nil, entities.ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file bytes: %w", err)
	}

	file.DownloadCount++
	return file, reader, nil
}

// Delete removes blob, grants, row and quota in that order. The quota
// release only runs once the row delete has succeeded, so quota is
// never freed for a file that still logically exists.
func (u *FileUsecase) Delete(ctx context.Context, requesterID, fileID int64) error {
	file, err := u.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	access, err := u.resolveAccess(ctx, file, requesterID)
	if err != nil {
		return err
	}
	if !access.CanDelete() {
		return entities.ErrForbidden
	}

	// An already-absent blob is logged and treated as success; the
	// store's Delete is idempotent for that case.
	if err := u.blobs.Delete(file.StoredPath); err != nil {
		return fmt.Errorf("failed to delete file bytes: %w", err)
	}

	if err := u.shares.DeleteByFile(ctx, fileID); err != nil {
		return err
	}

	if err := u.files.Delete(ctx, fileID); err != nil {
		return err
	}

	if err := u.users.ReleaseQuota(ctx, file.OwnerID, file.Size); err != nil {
		return fmt.Errorf("file deleted but quota not released: %w", err)
	}

	return nil
}

// UpdateMetadata changes description, tags and visibility. Permitted to
// the owner and to shared-write grantees; size, owner and the stored
// bytes never change here.
func (u *FileUsecase) UpdateMetadata(ctx context.Context, requesterID, fileID int64, update entities.FileUpdate) (*entities.File, error) {
	file, err := u.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	access, err := u.resolveAccess(ctx, file, requesterID)
	if err != nil {
		return nil, err
	}
	if !access.CanUpdateMetadata() {
		return nil, entities.ErrForbidden
	}

	if err := u.files.Update(ctx, fileID, update); err != nil {
		return nil, err
	}

	return u.files.GetByID(ctx, fileID)
}

// Share grants another user read or write access. Owner-only; sharing
// with yourself is rejected and the grantee must exist. Re-sharing the
// same pair replaces the previous grant.
func (u *FileUsecase) Share(ctx context.Context, requesterID, fileID, granteeID int64, permission entities.SharePermission) error {
	if !permission.Valid() {
		return fmt.Errorf("unknown permission %q: %w", permission, entities.ErrInvalidInput)
	}

	file, err := u.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}

	access, err := u.resolveAccess(ctx, file, requesterID)
	if err != nil {
		return err
	}
	if !access.CanShare() {
		return entities.ErrForbidden
	}

	if granteeID == file.OwnerID {
		return fmt.Errorf("cannot share a file with its owner: %w", entities.ErrConflict)
	}

	if _, err := u.users.GetByID(ctx, granteeID); err != nil {
		return err
	}

	if err := u.shares.Upsert(ctx, &entities.ShareGrant{
		FileID:     fileID,
		GranteeID:  granteeID,
		Permission: permission,
	}); err != nil {
		return err
	}

	return u.files.SetShared(ctx, fileID, true)
}

// SharedUsers lists the grants on a file. Owner-only.
func (u *FileUsecase) SharedUsers(ctx context.Context, requesterID, fileID int64) ([]*entities.ShareGrant, error) {
	file, err := u.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}

	access, err := u.resolveAccess(ctx, file, requesterID)
	if err != nil {
		return nil, err
	}
	if !access.CanShare() {
		return nil, entities.ErrForbidden
	}

	return u.shares.ListByFile(ctx, fileID)
}

// List returns the page of files visible to the requester: owned,
// public, or shared with them.
func (u *FileUsecase) List(ctx context.Context, requesterID int64, filter entities.FileFilter, page entities.FilePage) ([]*entities.File, Pagination, error) {
	if page.Page < 1 {
		page.Page = 1
	}
	if page.Limit <= 0 {
		page.Limit = defaultPageSize
	}
	if page.Limit > maxPageSize {
		page.Limit = maxPageSize
	}

	files, total, err := u.files.ListAccessible(ctx, requesterID, filter, page)
	if err != nil {
		return nil, Pagination{}, err
	}

	totalPages := (total + page.Limit - 1) / page.Limit
	return files, Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page.Page*page.Limit < total,
		HasPrev:    page.Page > 1,
	}, nil
}

// resolveAccess fetches the requester's grant fresh and evaluates it
// together with the file's current state. Never cached.
func (u *FileUsecase) resolveAccess(ctx context.Context, file *entities.File, requesterID int64) (Access, error) {
	grant, err := u.shares.Get(ctx, file.ID, requesterID)
	if err != nil && !errors.Is(err, entities.ErrNotFound) {
		return Access{}, fmt.Errorf("failed to look up share grant: %w", err)
	}
	return ResolveAccess(file, grant, requesterID), nil
}

// cleanupBlob removes a blob on a failure path. A cleanup failure is
// logged but must not mask the error being returned to the caller.
func (u *FileUsecase) cleanupBlob(handle string) {
	if err := u.blobs.Delete(handle); err != nil {
		u.logger.Printf("Failed to clean up blob %s: %v", handle, err)
	}
}
