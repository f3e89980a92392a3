package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/internal/usecase"
	"github.com/ekurt/clouddepo/internal/usecase/mocks"
	"github.com/ekurt/clouddepo/pkg/storage"
)

type lifecycleMocks struct {
	files  *mocks.MockFileRepository
	users  *mocks.MockUserRepository
	shares *mocks.MockShareRepository
	blobs  *mocks.MockBlobStore
}

func newFileUsecase() (*usecase.FileUsecase, *lifecycleMocks) {
	m := &lifecycleMocks{
		files:  new(mocks.MockFileRepository),
		users:  new(mocks.MockUserRepository),
		shares: new(mocks.MockShareRepository),
		blobs:  new(mocks.MockBlobStore),
	}
	return usecase.NewFileUsecase(m.files, m.users, m.shares, m.blobs), m
}

func noGrant(m *lifecycleMocks) {
	m.shares.On("Get", mock.Anything, mock.Anything, mock.Anything).Return(nil, entities.ErrNotFound)
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("success reserves quota then records the row", func(t *testing.T) {
		u, m := newFileUsecase()

		m.blobs.On("Put", mock.Anything, "report.pdf").Return("blob-1", int64(600), nil)
		m.users.On("ReserveQuota", mock.Anything, int64(1), int64(600)).Return(nil)
		m.files.On("Create", mock.Anything, mock.MatchedBy(func(f *entities.File) bool {
			return f.OwnerID == 1 && f.StoredPath == "blob-1" && f.Size == 600
		})).Return(&entities.File{ID: 42, OwnerID: 1, Size: 600, StoredPath: "blob-1"}, nil)

		file, err := u.Upload(ctx, 1, strings.NewReader("data"), "report.pdf", "application/pdf", entities.FileUpdate{})

		require.NoError(t, err)
		assert.Equal(t, int64(42), file.ID)
		m.blobs.AssertNotCalled(t, "Delete", mock.Anything)
		m.users.AssertNotCalled(t, "ReleaseQuota", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("quota exceeded deletes the blob and records nothing", func(t *testing.T) {
		u, m := newFileUsecase()

		m.blobs.On("Put", mock.Anything, "big.bin").Return("blob-2", int64(500), nil)
		m.users.On("ReserveQuota", mock.Anything, int64(1), int64(500)).Return(entities.ErrQuotaExceeded)
		m.blobs.On("Delete", "blob-2").Return(nil)

		_, err := u.Upload(ctx, 1, strings.NewReader("data"), "big.bin", "application/octet-stream", entities.FileUpdate{})

		assert.ErrorIs(t, err, entities.ErrQuotaExceeded)
		m.blobs.AssertCalled(t, "Delete", "blob-2")
		m.files.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("row insert failure releases quota and deletes the blob", func(t *testing.T) {
		u, m := newFileUsecase()

		m.blobs.On("Put", mock.Anything, "a.txt").Return("blob-3", int64(100), nil)
		m.users.On("ReserveQuota", mock.Anything, int64(1), int64(100)).Return(nil)
		m.files.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
		m.users.On("ReleaseQuota", mock.Anything, int64(1), int64(100)).Return(nil)
		m.blobs.On("Delete", "blob-3").Return(nil)

		_, err := u.Upload(ctx, 1, strings.NewReader("data"), "a.txt", "text/plain", entities.FileUpdate{})

		require.Error(t, err)
		m.users.AssertCalled(t, "ReleaseQuota", mock.Anything, int64(1), int64(100))
		m.blobs.AssertCalled(t, "Delete", "blob-3")
	})

	t.Run("blob write failure touches nothing else", func(t *testing.T) {
		u, m := newFileUsecase()

		m.blobs.On("Put", mock.Anything, "a.txt").Return("", int64(0), errors.New("disk full"))

		_, err := u.Upload(ctx, 1, strings.NewReader("data"), "a.txt", "text/plain", entities.FileUpdate{})

		require.Error(t, err)
		m.users.AssertNotCalled(t, "ReserveQuota", mock.Anything, mock.Anything, mock.Anything)
		m.files.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file is NotFound before any permission check", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(7)).Return(nil, entities.ErrNotFound)

		_, _, err := u.Download(ctx, 2, 7)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		m.shares.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("private file without grant is Forbidden", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(7)).Return(&entities.File{ID: 7, OwnerID: 1}, nil)
		noGrant(m)

		_, _, err := u.Download(ctx, 2, 7)

		assert.ErrorIs(t, err, entities.ErrForbidden)
		m.files.AssertNotCalled(t, "IncrementDownloadCount", mock.Anything, mock.Anything)
	})

	t.Run("public download increments count before streaming", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(7)).Return(
			&entities.File{ID: 7, OwnerID: 1, IsPublic: true, StoredPath: "blob-7", DownloadCount: 0}, nil)
		noGrant(m)
		m.files.On("IncrementDownloadCount", mock.Anything, int64(7)).Return(nil)
		m.blobs.On("Get", "blob-7").Return(io.NopCloser(strings.NewReader("bytes")), nil)

		file, reader, err := u.Download(ctx, 2, 7)

		require.NoError(t, err)
		defer reader.Close()
		assert.Equal(t, int64(1), file.DownloadCount)
		m.files.AssertCalled(t, "IncrementDownloadCount", mock.Anything, int64(7))
	})

	t.Run("row without blob surfaces NotFound", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(7)).Return(
			&entities.File{ID: 7, OwnerID: 2, StoredPath: "gone"}, nil)
		noGrant(m)
		m.files.On("IncrementDownloadCount", mock.Anything, int64(7)).Return(nil)
		m.blobs.On("Get", "gone").Return(nil, storage.ErrBlobNotFound)

		_, _, err := u.Download(ctx, 2, 7)

		assert.ErrorIs(t, err, entities.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	file := &entities.File{ID: 9, OwnerID: 1, Size: 600, StoredPath: "blob-9"}

	t.Run("owner delete runs blob, grants, row, quota in order", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(9)).Return(file, nil)
		noGrant(m)

		var order []string
		m.blobs.On("Delete", "blob-9").Run(func(mock.Arguments) {
			order = append(order, "blob")
		}).Return(nil)
		m.shares.On("DeleteByFile", mock.Anything, int64(9)).Run(func(mock.Arguments) {
			order = append(order, "grants")
		}).Return(nil)
		m.files.On("Delete", mock.Anything, int64(9)).Run(func(mock.Arguments) {
			order = append(order, "row")
		}).Return(nil)
		m.users.On("ReleaseQuota", mock.Anything, int64(1), int64(600)).Run(func(mock.Arguments) {
			order = append(order, "quota")
		}).Return(nil)

		require.NoError(t, u.Delete(ctx, 1, 9))
		assert.Equal(t, []string{"blob", "grants", "row", "quota"}, order)
	})

	t.Run("write grantee cannot delete", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(9)).Return(file, nil)
		m.shares.On("Get", mock.Anything, int64(9), int64(3)).Return(
			&entities.ShareGrant{FileID: 9, GranteeID: 3, Permission: entities.SharePermissionWrite}, nil)

		err := u.Delete(ctx, 3, 9)

		assert.ErrorIs(t, err, entities.ErrForbidden)
		m.blobs.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("second delete is NotFound with no quota release", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(9)).Return(nil, entities.ErrNotFound)

		err := u.Delete(ctx, 1, 9)

		assert.ErrorIs(t, err, entities.ErrNotFound)
		m.users.AssertNotCalled(t, "ReleaseQuota", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("row delete failure keeps quota reserved", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(9)).Return(file, nil)
		noGrant(m)
		m.blobs.On("Delete", "blob-9").Return(nil)
		m.shares.On("DeleteByFile", mock.Anything, int64(9)).Return(nil)
		m.files.On("Delete", mock.Anything, int64(9)).Return(errors.New("db down"))

		require.Error(t, u.Delete(ctx, 1, 9))
		m.users.AssertNotCalled(t, "ReleaseQuota", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateMetadata(t *testing.T) {
	ctx := context.Background()
	file := &entities.File{ID: 5, OwnerID: 1}
	update := entities.FileUpdate{Description: "new", Tags: "a,b", IsPublic: true}

	t.Run("write grantee may update", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(5)).Return(file, nil)
		m.shares.On("Get", mock.Anything, int64(5), int64(3)).Return(
			&entities.ShareGrant{FileID: 5, GranteeID: 3, Permission: entities.SharePermissionWrite}, nil)
		m.files.On("Update", mock.Anything, int64(5), update).Return(nil)

		_, err := u.UpdateMetadata(ctx, 3, 5, update)

		require.NoError(t, err)
	})

	t.Run("read grantee may not update", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(5)).Return(file, nil)
		m.shares.On("Get", mock.Anything, int64(5), int64(3)).Return(
			&entities.ShareGrant{FileID: 5, GranteeID: 3, Permission: entities.SharePermissionRead}, nil)

		_, err := u.UpdateMetadata(ctx, 3, 5, update)

		assert.ErrorIs(t, err, entities.ErrForbidden)
		m.files.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("public visibility does not convey write access", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(5)).Return(
			&entities.File{ID: 5, OwnerID: 1, IsPublic: true}, nil)
		noGrant(m)

		_, err := u.UpdateMetadata(ctx, 2, 5, update)

		assert.ErrorIs(t, err, entities.ErrForbidden)
	})
}

func TestShare(t *testing.T) {
	ctx := context.Background()
	file := &entities.File{ID: 5, OwnerID: 1}

	t.Run("owner shares and the file is flagged shared", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(5)).Return(file, nil)
		noGrant(m)
		m.users.On("GetByID", mock.Anything, int64(3)).Return(&entities.User{ID: 3}, nil)
		m.shares.On("Upsert", mock.Anything, mock.MatchedBy(func(g *entities.ShareGrant) bool {
			return g.FileID == 5 && g.GranteeID == 3 && g.Permission == entities.SharePermissionWrite
		})).Return(nil)
		m.files.On("SetShared", mock.Anything, int64(5), true).Return(nil)

		require.NoError(t, u.Share(ctx, 1, 5, 3, entities.SharePermissionWrite))
	})

	t.Run("self-share is a conflict regardless of permission", func(t *testing.T) {
		for _, perm := range []entities.SharePermission{entities.SharePermissionRead, entities.SharePermissionWrite} {
			u, m := newFileUsecase()
			m.files.On("GetByID", mock.Anything, int64(5)).Return(file, nil)
			noGrant(m)

			err := u.Share(ctx, 1, 5, 1, perm)

			assert.ErrorIs(t, err, entities.ErrConflict)
			m.shares.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		}
	})

	t.Run("non-owner cannot share even with a write grant", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(5)).Return(file, nil)
		m.shares.On("Get", mock.Anything, int64(5), int64(3)).Return(
			&entities.ShareGrant{FileID: 5, GranteeID: 3, Permission: entities.SharePermissionWrite}, nil)

		err := u.Share(ctx, 3, 5, 4, entities.SharePermissionRead)

		assert.ErrorIs(t, err, entities.ErrForbidden)
	})

	t.Run("unknown grantee is NotFound", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("GetByID", mock.Anything, int64(5)).Return(file, nil)
		noGrant(m)
		m.users.On("GetByID", mock.Anything, int64(99)).Return(nil, entities.ErrNotFound)

		err := u.Share(ctx, 1, 5, 99, entities.SharePermissionRead)

		assert.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("unknown permission is rejected before any lookup", func(t *testing.T) {
		u, m := newFileUsecase()

		err := u.Share(ctx, 1, 5, 3, entities.SharePermission("execute"))

		assert.ErrorIs(t, err, entities.ErrInvalidInput)
		m.files.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and pagination booleans", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("ListAccessible", mock.Anything, int64(1), entities.FileFilter{},
			entities.FilePage{Page: 1, Limit: 10, SortBy: "created_at", SortDesc: true},
		).Return([]*entities.File{{ID: 1}}, 25, nil)

		_, page, err := u.List(ctx, 1, entities.FileFilter{},
			entities.FilePage{Page: 0, Limit: 0, SortBy: "created_at", SortDesc: true})

		require.NoError(t, err)
		assert.Equal(t, 25, page.Total)
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasNext)
		assert.False(t, page.HasPrev)
	})

	t.Run("last page has prev but no next", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("ListAccessible", mock.Anything, int64(1), entities.FileFilter{},
			entities.FilePage{Page: 3, Limit: 10},
		).Return([]*entities.File{{ID: 1}}, 25, nil)

		_, page, err := u.List(ctx, 1, entities.FileFilter{}, entities.FilePage{Page: 3, Limit: 10})

		require.NoError(t, err)
		assert.False(t, page.HasNext)
		assert.True(t, page.HasPrev)
	})

	t.Run("oversized limit is clamped", func(t *testing.T) {
		u, m := newFileUsecase()
		m.files.On("ListAccessible", mock.Anything, int64(1), entities.FileFilter{},
			entities.FilePage{Page: 1, Limit: 100},
		).Return(nil, 0, nil)

		_, _, err := u.List(ctx, 1, entities.FileFilter{}, entities.FilePage{Page: 1, Limit: 5000})

		require.NoError(t, err)
		m.files.AssertExpectations(t)
	})
}
