package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	mediasvc "github.com/olegbarkov/amora/internal/services/media"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

const maxPhotoUploadSize = 10 << 20 // 10 MiB

type MediaHandler struct {
	service *mediasvc.Service
}

func NewMediaHandler(service *mediasvc.Service) *MediaHandler {
	return &MediaHandler{service: service}
}

func (h *MediaHandler) PhotoUpload(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoUploadSize)
	if err := r.ParseMultipartForm(maxPhotoUploadSize); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "file is required")
		return
	}
	defer file.Close()

	if header == nil || header.Size <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "file is empty")
		return
	}

	contentType := header.Header.Get("Content-Type")
	photo, err := h.service.Upload(r.Context(), identity.UserID, contentType, file, header.Size)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.MediaPhotoResponse{
		ID:          photo.ID,
		ContentType: photo.ContentType,
		CreatedAt:   photo.CreatedAt.Format(time.RFC3339),
	})
}

func (h *MediaHandler) PhotosList(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	photos, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleMediaError(w, err)
		return
	}

	items := make([]dto.MediaPhotoResponse, 0, len(photos))
	for _, photo := range photos {
		items = append(items, dto.MediaPhotoResponse{
			ID:          photo.ID,
			ContentType: photo.ContentType,
			URL:         photo.URL,
			CreatedAt:   photo.CreatedAt.Format(time.RFC3339),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MediaPhotosListResponse{Items: items})
}

func (h *MediaHandler) PhotoDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEDIA_SERVICE_UNAVAILABLE", "media service is unavailable")
		return
	}

	photoID := parseInt64OrDefault(chi.URLParam(r, "photo_id"), 0)
	if photoID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "photo_id must be a positive integer")
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, photoID); err != nil {
		handleMediaError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func handleMediaError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mediasvc.ErrUnsupportedContent):
		writeBadRequest(w, "UNSUPPORTED_CONTENT_TYPE", "content type is not allowed")
	case errors.Is(err, mediasvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid media request")
	case errors.Is(err, mediasvc.ErrNotFound):
		writeNotFound(w, "PHOTO_NOT_FOUND", "photo not found")
	case errors.Is(err, mediasvc.ErrStorageUnavailable):
		writeInternal(w, "STORAGE_UNAVAILABLE", "media storage is unavailable")
	default:
		writeInternal(w, "INTERNAL_ERROR", "media operation failed")
	}
}
