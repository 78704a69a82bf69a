package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	notifsvc "github.com/olegbarkov/amora/internal/services/notifications"
	userssvc "github.com/olegbarkov/amora/internal/services/users"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type MeHandler struct {
	users         *userssvc.Service
	notifications *notifsvc.Service
}

func NewMeHandler(users *userssvc.Service, notifications *notifsvc.Service) *MeHandler {
	return &MeHandler{users: users, notifications: notifications}
}

func (h *MeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.users == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	user, err := h.users.Get(r.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, userssvc.ErrNotFound) {
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load account")
		return
	}

	unread := 0
	if h.notifications != nil {
		if n, err := h.notifications.UnreadCount(r.Context(), identity.UserID); err == nil {
			unread = n
		}
	}

	httperrors.Write(w, http.StatusOK, dto.MeResponse{
		ID:                  user.ID,
		Email:               user.Email,
		Role:                user.Role,
		OnboardingComplete:  user.OnboardingComplete,
		UnreadNotifications: unread,
	})
}
