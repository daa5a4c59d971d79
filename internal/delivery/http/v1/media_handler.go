package v1

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"tienda-backend/internal/domain"
	"tienda-backend/pkg/logger"
	"tienda-backend/pkg/utils"
)

var (
	allowedMimeTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	allowedExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".gif":  true,
	}
	// Entities whose records carry an image (logo, cover, banner).
	mediaEntities = map[string]bool{
		domain.EntityBrands:     true,
		domain.EntityImprints:   true,
		domain.EntityCategories: true,
	}
)

// MediaStore uploads processed media and returns its public URL.
type MediaStore interface {
	UploadBuffer(ctx context.Context, prefix string, data []byte, contentType string) (string, error)
}

type MediaHandler struct {
	storage       MediaStore
	maxUploadSize int64
}

// NewMediaHandler accepts a nil store, in which case uploads answer 503.
func NewMediaHandler(s MediaStore, maxUploadSizeMB int64) *MediaHandler {
	return &MediaHandler{
		storage:       s,
		maxUploadSize: maxUploadSizeMB << 20,
	}
}

// Upload handles POST /api/tienda/{entity}/media (multipart field "file").
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.WithContext(r.Context())
	entity := r.PathValue("entity")

	if !mediaEntities[entity] {
		utils.WriteError(w, http.StatusNotFound, "media uploads are not supported for "+entity)
		return
	}
	if h.storage == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "media storage is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Warn().Err(err).Msg("multipart parse failed")
		utils.WriteError(w, http.StatusBadRequest, "File too large or invalid format")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedMimeTypes[contentType] {
		log.Warn().Str("content_type", contentType).Msg("rejected upload mime type")
		utils.WriteError(w, http.StatusBadRequest, "Invalid file type. Allowed: JPEG, PNG, WebP, GIF")
		return
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		utils.WriteError(w, http.StatusBadRequest, "Invalid file extension")
		return
	}

	processed, newContentType, err := utils.ProcessImage(file, utils.MaxImageWidth, log)
	if err != nil {
		log.Warn().Err(err).Str("filename", header.Filename).Msg("image processing failed")
		utils.WriteError(w, http.StatusBadRequest, "Failed to process image")
		return
	}

	url, err := h.storage.UploadBuffer(r.Context(), "tienda/"+entity, processed, newContentType)
	if err != nil {
		log.Error().Err(err).Msg("media upload failed")
		utils.WriteError(w, http.StatusBadGateway, "Failed to upload file")
		return
	}

	log.Info().Str("entity", entity).Str("url", url).Int("bytes", len(processed)).Msg("media uploaded")
	utils.WriteJSON(w, http.StatusOK, domain.Response{
		Success: true,
		Data:    map[string]string{"url": url},
	})
}
