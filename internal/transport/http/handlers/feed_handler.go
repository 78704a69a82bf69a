package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	feedsvc "github.com/olegbarkov/amora/internal/services/feed"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type FeedHandler struct {
	service *feedsvc.Service
}

func NewFeedHandler(service *feedsvc.Service) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "FEED_SERVICE_UNAVAILABLE", "feed service is unavailable")
		return
	}

	cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 0)

	result, err := h.service.Get(r.Context(), identity.UserID, cursor, limit)
	if err != nil {
		switch {
		case errors.Is(err, feedsvc.ErrInvalidCursor):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid cursor")
		case errors.Is(err, feedsvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid feed request")
		case errors.Is(err, feedsvc.ErrNotFound):
			writeNotFound(w, "VIEWER_NOT_FOUND", "viewer profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load feed")
		}
		return
	}

	items := make([]dto.FeedItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, dto.FeedItemResponse{
			UserID:      item.UserID,
			DisplayName: item.DisplayName,
			Gender:      item.Gender,
			City:        item.City,
			Bio:         item.Bio,
			Age:         item.Age,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.FeedResponse{
		Items:      items,
		NextCursor: result.NextCursor,
	})
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func parseInt64OrDefault(raw string, fallback int64) int64 {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return fallback
	}
	return value
}
