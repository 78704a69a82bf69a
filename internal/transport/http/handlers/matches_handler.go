package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	matchessvc "github.com/olegbarkov/amora/internal/services/matches"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *matchessvc.Service
}

func NewMatchesHandler(service *matchessvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)
	records, err := h.service.List(r.Context(), identity.UserID, limit)
	if err != nil {
		handleMatchError(w, err)
		return
	}

	items := make([]dto.MatchResponse, 0, len(records))
	for _, rec := range records {
		item := dto.MatchResponse{
			MatchID:     rec.ID,
			UserID:      rec.TargetUserID,
			DisplayName: rec.DisplayName,
			City:        rec.City,
			CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
			Unread:      rec.Unread,
		}
		if rec.LastMessageAt != nil {
			item.LastMessageAt = rec.LastMessageAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: items})
}

func (h *MatchesHandler) Unmatch(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	var req dto.UnmatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Unmatch(r.Context(), identity.UserID, req.TargetID); err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *MatchesHandler) Block(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	var req dto.BlockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Block(r.Context(), identity.UserID, req.TargetID, req.Reason); err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *MatchesHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MATCH_SERVICE_UNAVAILABLE", "match service is unavailable")
		return
	}

	var req dto.UnblockRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Unblock(r.Context(), identity.UserID, req.TargetID); err != nil {
		handleMatchError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func handleMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matchessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid match request")
	case errors.Is(err, matchessvc.ErrNotFound):
		writeNotFound(w, "NOT_FOUND", "match or block not found")
	case errors.Is(err, matchessvc.ErrUserGone):
		writeNotFound(w, "TARGET_NOT_FOUND", "target user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "match operation failed")
	}
}
