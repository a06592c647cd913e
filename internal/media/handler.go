// Package media exposes the storage adapter over HTTP: uploads, deletes,
// existence checks, and raw reads.
package media

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"spaces-storage/imageproc"
	"spaces-storage/internal/metrics"
	"spaces-storage/internal/server/respond"
	"spaces-storage/storage"
	"spaces-storage/storage/spaces"
)

const maxUploadSize = 30 << 20 // 30MB

// Handler wires HTTP handlers to a storage adapter.
type Handler struct {
	Store storage.Adapter
}

// NewHandler constructs a Handler.
func NewHandler(store storage.Adapter) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches media routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/images", h.upload)
	rg.DELETE("/images", h.remove)
	rg.GET("/images/exists", h.exists)
	rg.GET("/images/source", h.source)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	// The adapter contract wants a path on disk, so the upload is spooled to
	// a temp file for the duration of the save.
	tmpPath, cleanup, err := spoolUpload(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unable to buffer upload", nil)
		return
	}
	defer cleanup()

	image := storage.Image{
		Path: tmpPath,
		Name: fileHeader.Filename,
		Type: fileHeader.Header.Get("Content-Type"),
	}

	start := time.Now()
	url, err := h.Store.Save(c.Request.Context(), image, c.PostForm("dir"))
	metrics.SaveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SaveFailuresTotal.Inc()
		switch {
		case errors.Is(err, storage.ErrNoUniqueKey):
			respond.Error(c, http.StatusConflict, "name_exhausted", err.Error(), nil)
		case errors.Is(err, spaces.ErrResizerUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "image_resizing_unavailable", err.Error(), nil)
		case errors.Is(err, imageproc.ErrProcessing):
			respond.Error(c, http.StatusUnprocessableEntity, "invalid_image", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save file", nil)
		}
		return
	}
	metrics.SavesTotal.Inc()

	respond.JSON(c, http.StatusCreated, gin.H{"url": url})
}

func (h *Handler) remove(c *gin.Context) {
	fileName := c.Query("file")
	if fileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	ok := h.Store.Delete(c.Request.Context(), fileName, c.Query("dir"))
	if ok {
		metrics.DeletesTotal.Inc()
	}
	respond.OK(c, gin.H{"deleted": ok})
}

func (h *Handler) exists(c *gin.Context) {
	fileName := c.Query("file")
	if fileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	ok := h.Store.Exists(c.Request.Context(), fileName, c.Query("dir"))
	respond.OK(c, gin.H{"exists": ok})
}

func (h *Handler) source(c *gin.Context) {
	rawURL := c.Query("path")
	if rawURL == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "path is required", nil)
		return
	}
	data, err := h.Store.Read(c.Request.Context(), storage.ReadOptions{Path: rawURL})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotManaged):
			respond.Error(c, http.StatusNotFound, "not_managed", "file is not managed by this store", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read file", nil)
		}
		return
	}
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func spoolUpload(fh *multipart.FileHeader) (string, func(), error) {
	src, err := fh.Open()
	if err != nil {
		return "", nil, err
	}
	defer src.Close()

	ext := filepath.Ext(storage.SanitizeFileName(fh.Filename))
	tmp, err := os.CreateTemp("", "media-upload-*"+ext)
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}
	return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
}
