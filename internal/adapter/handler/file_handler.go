package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ekurt/clouddepo/internal/domain/entities"
	"github.com/ekurt/clouddepo/internal/usecase"
	"github.com/ekurt/clouddepo/pkg/middleware"
)

// FileHandler exposes the file lifecycle endpoints. All routes require
// an authenticated principal.
type FileHandler struct {
	files       *usecase.FileUsecase
	maxFileSize int64
}

// NewFileHandler creates the file handler. maxFileSize caps a single
// upload in bytes.
func NewFileHandler(files *usecase.FileUsecase, maxFileSize int64) *FileHandler {
	return &FileHandler{files: files, maxFileSize: maxFileSize}
}

// RegisterRoutes wires the file endpoints onto an authenticated group.
func (h *FileHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/files/upload", h.upload)
	authed.GET("/files", h.list)
	authed.GET("/files/:id/download", h.download)
	authed.PUT("/files/:id", h.update)
	authed.DELETE("/files/:id", h.remove)
	authed.POST("/files/:id/share", h.share)
	authed.GET("/files/:id/shares", h.listShares)
}

func (h *FileHandler) upload(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(header.Filename))
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if !mimeAllowed(mimeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not supported"})
		return
	}

	meta := entities.FileUpdate{
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
		IsPublic:    c.PostForm("is_public") == "true",
	}

	created, err := h.files.Upload(c.Request.Context(), principal.UserID,
		io.LimitReader(file, h.maxFileSize+1), filepath.Base(header.Filename), mimeType, meta)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "File uploaded successfully",
		"file":    fileView(created),
	})
}

func (h *FileHandler) list(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	filter := entities.FileFilter{
		Search: c.Query("search"),
		Type:   c.Query("type"),
	}
	pagination := entities.FilePage{
		Page:     page,
		Limit:    limit,
		SortBy:   c.DefaultQuery("sort", "created_at"),
		SortDesc: !strings.EqualFold(c.Query("order"), "asc"),
	}

	files, pageInfo, err := h.files.List(c.Request.Context(), principal.UserID, filter, pagination)
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]gin.H, 0, len(files))
	for _, f := range files {
		views = append(views, fileView(f))
	}

	c.JSON(http.StatusOK, gin.H{
		"files":      views,
		"pagination": pageInfo,
	})
}

func (h *FileHandler) download(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	file, reader, err := h.files.Download(c.Request.Context(), principal.UserID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	c.Header("Content-Type", file.MimeType)
	c.Header("Content-Length", strconv.FormatInt(file.Size, 10))

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Headers are already out; nothing to send but the log.
		c.Error(err)
	}
}

type updateFileRequest struct {
	Description string `json:"description"`
	Tags        string `json:"tags"`
	IsPublic    bool   `json:"is_public"`
}

func (h *FileHandler) update(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	var req updateFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	file, err := h.files.UpdateMetadata(c.Request.Context(), principal.UserID, fileID, entities.FileUpdate{
		Description: req.Description,
		Tags:        req.Tags,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "File updated successfully",
		"file":    fileView(file),
	})
}

func (h *FileHandler) remove(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.files.Delete(c.Request.Context(), principal.UserID, fileID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}

type shareRequest struct {
	UserID     int64  `json:"user_id" binding:"required"`
	Permission string `json:"permission"`
}

func (h *FileHandler) share(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	var req shareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Permission == "" {
		req.Permission = string(entities.SharePermissionRead)
	}

	err := h.files.Share(c.Request.Context(), principal.UserID, fileID, req.UserID,
		entities.SharePermission(req.Permission))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File shared successfully"})
}

func (h *FileHandler) listShares(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	fileID, ok := pathID(c)
	if !ok {
		return
	}

	grants, err := h.files.SharedUsers(c.Request.Context(), principal.UserID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"shares": grants})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file id"})
		return 0, false
	}
	return id, true
}

// fileView augments the entity with the derived coarse type for clients.
func fileView(f *entities.File) gin.H {
	return gin.H{
		"id":             f.ID,
		"owner_id":       f.OwnerID,
		"original_name":  f.OriginalName,
		"mime_type":      f.MimeType,
		"file_type":      f.FileType(),
		"size":           f.Size,
		"description":    f.Description,
		"tags":           f.Tags,
		"is_public":      f.IsPublic,
		"is_shared":      f.IsShared,
		"download_count": f.DownloadCount,
		"created_at":     f.CreatedAt,
		"updated_at":     f.UpdatedAt,
	}
}

// mimeAllowed mirrors the upload allow-list: media, documents and
// archives pass, anything unclassifiable is rejected.
func mimeAllowed(mimeType string) bool {
	probe := entities.File{MimeType: mimeType}
	return probe.FileType() != "other"
}
