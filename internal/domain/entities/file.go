package entities

import (
	"strings"
	"time"
)

// File represents an uploaded file's metadata row. The bytes themselves
// live in a blob store, addressed by StoredPath.
type File struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	OriginalName  string    `json:"original_name"`
	StoredPath    string    `json:"-"`
	MimeType      string    `json:"mime_type"`
	Size          int64     `json:"size"`
	Description   string    `json:"description"`
	Tags          string    `json:"tags"`
	IsPublic      bool      `json:"is_public"`
	IsShared      bool      `json:"is_shared"`
	DownloadCount int64     `json:"download_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SharePermission is the right a share grant conveys.
type SharePermission string

const (
	SharePermissionRead  SharePermission = "read"
	SharePermissionWrite SharePermission = "write"
)

// Valid reports whether p is one of the known permissions.
func (p SharePermission) Valid() bool {
	return p == SharePermissionRead || p == SharePermissionWrite
}

// ShareGrant gives one user access to one file owned by another user.
// At most one grant exists per (file, grantee); re-sharing replaces it.
type ShareGrant struct {
	FileID     int64           `json:"file_id"`
	GranteeID  int64           `json:"grantee_id"`
	Permission SharePermission `json:"permission"`
	SharedAt   time.Time       `json:"shared_at"`
}

// FileUpdate carries the mutable metadata fields. Size, owner and the
// stored bytes are never updatable.
type FileUpdate struct {
	Description string `json:"description"`
	Tags        string `json:"tags"`
	IsPublic    bool   `json:"is_public"`
}

// FileType is the coarse category derived from the MIME type, used for
// list filtering and by clients to pick an icon.
func (f *File) FileType() string {
	switch {
	case strings.HasPrefix(f.MimeType, "image/"):
		return "image"
	case strings.HasPrefix(f.MimeType, "video/"):
		return "video"
	case strings.HasPrefix(f.MimeType, "audio/"):
		return "audio"
	case f.MimeType == "application/pdf",
		strings.Contains(f.MimeType, "msword"),
		strings.Contains(f.MimeType, "officedocument"),
		strings.HasPrefix(f.MimeType, "text/"):
		return "document"
	case f.MimeType == "application/zip",
		strings.Contains(f.MimeType, "x-rar"),
		strings.Contains(f.MimeType, "x-7z"),
		f.MimeType == "application/gzip",
		f.MimeType == "application/x-tar":
		return "archive"
	default:
		return "other"
	}
}

// FileFilter narrows list queries. Search matches original name and
// description; Type is one of the FileType categories.
type FileFilter struct {
	Search string
	Type   string
}

// FilePage describes pagination and ordering for list queries.
type FilePage struct {
	Page     int
	Limit    int
	SortBy   string
	SortDesc bool
}

// Offset returns the row offset for the page, pages starting at 1.
func (p FilePage) Offset() int {
	return (p.Page - 1) * p.Limit
}
