package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ekurt/clouddepo/internal/domain/entities"
)

const fileColumns = `id, owner_id, original_name, stored_path, mime_type, size,
	description, tags, is_public, is_shared, download_count, created_at, updated_at`

// sortColumns whitelists the ORDER BY targets; anything else falls back
// to created_at so user input never reaches the SQL text.
var sortColumns = map[string]string{
	"created_at":     "created_at",
	"updated_at":     "updated_at",
	"original_name":  "original_name",
	"size":           "size",
	"download_count": "download_count",
}

// FileRepository is the SQLite implementation of the file metadata store.
type FileRepository struct {
	db *sql.DB
}

// NewFileRepository creates a file repository on an open database.
func NewFileRepository(db *sql.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *entities.File) (*entities.File, error) {
	now := time.Now().UTC()

	result, err := r.db.ExecContext(ctx, `
		INSERT INTO files (owner_id, original_name, stored_path, mime_type, size, description, tags, is_public, is_shared, download_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		file.OwnerID, file.OriginalName, file.StoredPath, file.MimeType, file.Size,
		file.Description, file.Tags, file.IsPublic, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted file id: %w", err)
	}

	return r.GetByID(ctx, id)
}

func (r *FileRepository) GetByID(ctx context.Context, id int64) (*entities.File, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+fileColumns+" FROM files WHERE id = ?", id)
	file, err := scanFile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return file, nil
}

func (r *FileRepository) Update(ctx context.Context, id int64, update entities.FileUpdate) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE files SET description = ?, tags = ?, is_public = ?, updated_at = ?
		WHERE id = ?`,
		update.Description, update.Tags, update.IsPublic, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update file: %w", err)
	}
	return requireRow(result)
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM files WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return requireRow(result)
}

func (r *FileRepository) IncrementDownloadCount(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE files SET download_count = download_count + 1 WHERE id = ?", id)
	return err
}

func (r *FileRepository) SetShared(ctx context.Context, id int64, shared bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE files SET is_shared = ?, updated_at = ? WHERE id = ?",
		shared, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to flag file as shared: %w", err)
	}
	return requireRow(result)
}

func (r *FileRepository) ListAccessible(ctx context.Context, userID int64, filter entities.FileFilter, page entities.FilePage) ([]*entities.File, int, error) {
	where, args := accessibleWhere(userID, filter)

	var total int
	countQuery := "SELECT COUNT(*) FROM files f LEFT JOIN file_shares fs ON fs.file_id = f.id AND fs.grantee_id = ? " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count files: %w", err)
	}

	order, ok := sortColumns[page.SortBy]
	if !ok {
		order = "created_at"
	}
	dir := "ASC"
	if page.SortDesc {
		dir = "DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM (
			SELECT f.* FROM files f
			LEFT JOIN file_shares fs ON fs.file_id = f.id AND fs.grantee_id = ?
			%s
		) ORDER BY %s %s, id %s LIMIT ? OFFSET ?`,
		fileColumns, where, order, dir, dir,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*entities.File
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, 0, err
		}
		files = append(files, file)
	}
	return files, total, rows.Err()
}

func (r *FileRepository) SumSizeByOwner(ctx context.Context, ownerID int64) (int64, error) {
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(size) FROM files WHERE owner_id = ?", ownerID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum file sizes: %w", err)
	}
	return total.Int64, nil
}

// accessibleWhere builds the visibility clause: owned, public, or
// shared with the requester, plus the optional search and type filters.
func accessibleWhere(userID int64, filter entities.FileFilter) (string, []interface{}) {
	where := "WHERE (f.owner_id = ? OR f.is_public = 1 OR fs.grantee_id IS NOT NULL)"
	args := []interface{}{userID, userID}

	if filter.Search != "" {
		where += " AND (f.original_name LIKE ? OR f.description LIKE ?)"
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern)
	}

	switch filter.Type {
	case "image":
		where += " AND f.mime_type LIKE 'image/%'"
	case "video":
		where += " AND f.mime_type LIKE 'video/%'"
	case "audio":
		where += " AND f.mime_type LIKE 'audio/%'"
	case "document":
		where += " AND (f.mime_type = 'application/pdf' OR f.mime_type LIKE 'text/%' OR f.mime_type LIKE '%msword%' OR f.mime_type LIKE '%officedocument%')"
	case "archive":
		where += " AND (f.mime_type = 'application/zip' OR f.mime_type = 'application/gzip' OR f.mime_type = 'application/x-tar' OR f.mime_type LIKE '%x-rar%' OR f.mime_type LIKE '%x-7z%')"
	}

	return where, args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFile(row rowScanner) (*entities.File, error) {
	var file entities.File
	err := row.Scan(
		&file.ID, &file.OwnerID, &file.OriginalName, &file.StoredPath,
		&file.MimeType, &file.Size, &file.Description, &file.Tags,
		&file.IsPublic, &file.IsShared, &file.DownloadCount,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &file, nil
}
