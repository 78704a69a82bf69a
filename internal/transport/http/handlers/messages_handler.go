package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegbarkov/amora/internal/domain/model"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	messagessvc "github.com/olegbarkov/amora/internal/services/messages"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type MessagesHandler struct {
	service *messagessvc.Service
}

func NewMessagesHandler(service *messagessvc.Service) *MessagesHandler {
	return &MessagesHandler{service: service}
}

func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	identity, matchID, ok := h.begin(w, r)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	msg, err := h.service.Send(r.Context(), identity.UserID, matchID, req.Body)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, messageResponse(*msg))
}

func (h *MessagesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, matchID, ok := h.begin(w, r)
	if !ok {
		return
	}

	beforeID := parseInt64OrDefault(r.URL.Query().Get("before_id"), 0)
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)

	messages, err := h.service.ListThread(r.Context(), identity.UserID, matchID, beforeID, limit)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	items := make([]dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		items = append(items, messageResponse(msg))
	}

	httperrors.Write(w, http.StatusOK, dto.MessagesResponse{Items: items})
}

func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, matchID, ok := h.begin(w, r)
	if !ok {
		return
	}

	marked, err := h.service.MarkThreadRead(r.Context(), identity.UserID, matchID)
	if err != nil {
		handleMessageError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MarkReadResponse{OK: true, MarkedRead: marked})
}

func (h *MessagesHandler) begin(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "MESSAGE_SERVICE_UNAVAILABLE", "message service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	matchID := parseInt64OrDefault(chi.URLParam(r, "match_id"), 0)
	if matchID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "match_id must be a positive integer")
		return authsvc.Identity{}, 0, false
	}

	return identity, matchID, true
}

func handleMessageError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, messagessvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid message request")
	case errors.Is(err, messagessvc.ErrNotFound):
		writeNotFound(w, "MATCH_NOT_FOUND", "match not found")
	case errors.Is(err, messagessvc.ErrForbidden):
		writeForbidden(w, "FORBIDDEN", "not a participant of this match")
	default:
		writeInternal(w, "INTERNAL_ERROR", "message operation failed")
	}
}

func messageResponse(msg model.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:           msg.ID,
		MatchID:      msg.MatchID,
		SenderUserID: msg.SenderUserID,
		Body:         msg.Body,
		Read:         msg.Read,
		CreatedAt:    msg.CreatedAt.Format(time.RFC3339),
	}
}
