package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegbarkov/amora/internal/domain/model"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	notifsvc "github.com/olegbarkov/amora/internal/services/notifications"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type NotificationsHandler struct {
	service *notifsvc.Service
}

func NewNotificationsHandler(service *notifsvc.Service) *NotificationsHandler {
	return &NotificationsHandler{service: service}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "NOTIFICATION_SERVICE_UNAVAILABLE", "notification service is unavailable")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)
	offset := parseIntOrDefault(r.URL.Query().Get("offset"), 0)

	records, err := h.service.List(r.Context(), identity.UserID, unreadOnly, limit, offset)
	if err != nil {
		handleNotificationError(w, err)
		return
	}

	items := make([]dto.NotificationResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, notificationResponse(rec))
	}

	httperrors.Write(w, http.StatusOK, dto.NotificationsResponse{Items: items})
}

func (h *NotificationsHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "NOTIFICATION_SERVICE_UNAVAILABLE", "notification service is unavailable")
		return
	}

	count, err := h.service.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		handleNotificationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.UnreadCountResponse{Unread: count})
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, notificationID, ok := h.begin(w, r)
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), identity.UserID, notificationID); err != nil {
		handleNotificationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "NOTIFICATION_SERVICE_UNAVAILABLE", "notification service is unavailable")
		return
	}

	marked, err := h.service.MarkAllRead(r.Context(), identity.UserID)
	if err != nil {
		handleNotificationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.MarkAllReadResponse{OK: true, MarkedRead: marked})
}

func (h *NotificationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, notificationID, ok := h.begin(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, notificationID); err != nil {
		handleNotificationError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *NotificationsHandler) begin(w http.ResponseWriter, r *http.Request) (authsvc.Identity, int64, bool) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return authsvc.Identity{}, 0, false
	}
	if h.service == nil {
		writeInternal(w, "NOTIFICATION_SERVICE_UNAVAILABLE", "notification service is unavailable")
		return authsvc.Identity{}, 0, false
	}

	notificationID := parseInt64OrDefault(chi.URLParam(r, "notification_id"), 0)
	if notificationID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "notification_id must be a positive integer")
		return authsvc.Identity{}, 0, false
	}

	return identity, notificationID, true
}

func handleNotificationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notifsvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid notification request")
	case errors.Is(err, notifsvc.ErrNotFound):
		writeNotFound(w, "NOTIFICATION_NOT_FOUND", "notification not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "notification operation failed")
	}
}

func notificationResponse(rec model.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:             rec.ID,
		Type:           string(rec.Type),
		Title:          rec.Title,
		Message:        rec.Message,
		Read:           rec.Read,
		RelatedUserID:  rec.RelatedUserID,
		RelatedMatchID: rec.RelatedMatchID,
		RelatedEventID: rec.RelatedEventID,
		CreatedAt:      rec.CreatedAt.Format(time.RFC3339),
	}
}
