package handlers

import (
	"net/http"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	intersvc "github.com/olegbarkov/amora/internal/services/interactions"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type LikesHandler struct {
	service *intersvc.Service
}

func NewLikesHandler(service *intersvc.Service) *LikesHandler {
	return &LikesHandler{service: service}
}

// Liked returns profiles the caller liked or superliked; passes are excluded.
func (h *LikesHandler) Liked(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx *http.Request, userID int64, limit int) ([]pgrepo.LikedProfileRecord, error) {
		return h.service.ListLiked(ctx.Context(), userID, limit)
	})
}

func (h *LikesHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, func(ctx *http.Request, userID int64, limit int) ([]pgrepo.LikedProfileRecord, error) {
		return h.service.ListIncoming(ctx.Context(), userID, limit)
	})
}

func (h *LikesHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	load func(*http.Request, int64, int) ([]pgrepo.LikedProfileRecord, error),
) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERACTION_SERVICE_UNAVAILABLE", "interaction service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)
	records, err := load(r, identity.UserID, limit)
	if err != nil {
		handleInteractionError(w, err)
		return
	}

	items := make([]dto.LikedProfileResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, dto.LikedProfileResponse{
			UserID:      rec.UserID,
			DisplayName: rec.DisplayName,
			City:        rec.City,
			Kind:        rec.Kind,
			LikedAt:     rec.LikedAt.Format(time.RFC3339),
		})
	}

	httperrors.Write(w, http.StatusOK, dto.LikedProfilesResponse{Items: items})
}
