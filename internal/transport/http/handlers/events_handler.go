package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	eventssvc "github.com/olegbarkov/amora/internal/services/events"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type EventsHandler struct {
	service *eventssvc.Service
}

func NewEventsHandler(service *eventssvc.Service) *EventsHandler {
	return &EventsHandler{service: service}
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "EVENT_SERVICE_UNAVAILABLE", "event service is unavailable")
		return
	}

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)
	offset := parseIntOrDefault(r.URL.Query().Get("offset"), 0)

	events, err := h.service.ListUpcoming(r.Context(), identity.UserID, city, limit, offset)
	if err != nil {
		handleEventError(w, err)
		return
	}

	items := make([]dto.EventResponse, 0, len(events))
	for _, ev := range events {
		items = append(items, eventResponse(ev))
	}

	httperrors.Write(w, http.StatusOK, dto.EventsResponse{Items: items})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, eventID, ok := h.begin(w, r)
	if !ok {
		return
	}

	details, err := h.service.Get(r.Context(), identity.UserID, eventID)
	if err != nil {
		handleEventError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, eventResponse(*details))
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "EVENT_SERVICE_UNAVAILABLE", "event service is unavailable")
		return
	}

	var req dto.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "starts_at must be RFC3339")
		return
	}

	event, err := h.service.Create(r.Context(), identity.UserID, req.Title, req.Description, req.City, req.Location, startsAt)
	if err != nil {
		handleEventError(w, err)
		return
	}

	httperrors.Write(w, http.StatusCreated, dto.EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		City:        event.City,
		Location:    event.Location,
		StartsAt:    event.StartsAt.Format(time.RFC3339),
	})
}

func (h *EventsHandler) Join(w http.ResponseWriter, r *http.Request) {
	identity, eventID, ok := h.begin(w, r)
	if !ok {
		return
	}

	if err := h.service.Join(r.Context(), eventID, identity.UserID); err != nil {
		handleEventError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *EventsHandler) Leave(w http.ResponseWriter, r *http.Request) {
	identity, eventID, ok := h.begin(w, r)
	if !ok {
		return
	}

	if err := h.service.Leave(r.Context(), eventID, identity.UserID); err != nil {
		handleEventError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *EventsHandler) begin(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "EVENT_SERVICE_UNAVAILABLE", "event service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	eventID := parseInt64OrDefault(chi.URLParam(r, "event_id"), 0)
	if eventID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "event_id must be a positive integer")
		return authsvc.Identity{}, 0, false
	}

	return identity, eventID, true
}

func handleEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, eventssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid event request")
	case errors.Is(err, eventssvc.ErrNotFound):
		writeNotFound(w, "EVENT_NOT_FOUND", "event not found")
	case errors.Is(err, eventssvc.ErrAlreadyJoined):
		writeConflict(w, "ALREADY_JOINED", "already joined this event")
	case errors.Is(err, eventssvc.ErrNotJoined):
		writeConflict(w, "NOT_JOINED", "event was not joined")
	default:
		writeInternal(w, "INTERNAL_ERROR", "event operation failed")
	}
}

func eventResponse(details pgrepo.EventDetails) dto.EventResponse {
	return dto.EventResponse{
		ID:            details.ID,
		Title:         details.Title,
		Description:   details.Description,
		City:          details.City,
		Location:      details.Location,
		StartsAt:      details.StartsAt.Format(time.RFC3339),
		AttendeeCount: details.AttendeeCount,
		ViewerJoined:  details.ViewerJoined,
	}
}
