package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	intersvc "github.com/olegbarkov/amora/internal/services/interactions"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type InteractionsHandler struct {
	service *intersvc.Service
}

func NewInteractionsHandler(service *intersvc.Service) *InteractionsHandler {
	return &InteractionsHandler{service: service}
}

func (h *InteractionsHandler) Record(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERACTION_SERVICE_UNAVAILABLE", "interaction service is unavailable")
		return
	}

	var req dto.InteractionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	result, err := h.service.Record(r.Context(), identity.UserID, req.TargetID, req.Kind)
	if err != nil {
		handleInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.InteractionResponse{
		OK:           true,
		MatchCreated: result.MatchCreated,
		MatchID:      result.MatchID,
	})
}

func (h *InteractionsHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "INTERACTION_SERVICE_UNAVAILABLE", "interaction service is unavailable")
		return
	}

	var req dto.UnlikeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	if err := h.service.Unlike(r.Context(), identity.UserID, req.TargetID); err != nil {
		handleInteractionError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func handleInteractionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, intersvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid interaction request")
	case errors.Is(err, intersvc.ErrUnsupportedKind):
		writeBadRequest(w, "VALIDATION_ERROR", "unsupported interaction kind")
	case errors.Is(err, intersvc.ErrTargetNotFound):
		writeNotFound(w, "TARGET_NOT_FOUND", "target user not found")
	case errors.Is(err, intersvc.ErrAlreadyInteracted):
		writeConflict(w, "ALREADY_INTERACTED", "already interacted with this user")
	case errors.Is(err, intersvc.ErrLikeNotFound):
		writeNotFound(w, "LIKE_NOT_FOUND", "like not found")
	default:
		if tf, ok := intersvc.IsTooFast(err); ok {
			httperrors.Write(w, http.StatusTooManyRequests, httperrors.RateLimitError{
				Code:          "TOO_FAST",
				Message:       "too many like actions, slow down",
				RetryAfterSec: tf.RetryAfter(),
			})
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to process interaction")
	}
}
