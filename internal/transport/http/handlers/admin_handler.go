package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	userssvc "github.com/olegbarkov/amora/internal/services/users"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

type AdminHandler struct {
	service *userssvc.Service
}

func NewAdminHandler(service *userssvc.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	emailQuery := strings.TrimSpace(r.URL.Query().Get("email"))
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 50)
	offset := parseIntOrDefault(r.URL.Query().Get("offset"), 0)

	users, err := h.service.List(r.Context(), emailQuery, limit, offset)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	items := make([]dto.AdminUserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, adminUserResponse(user))
	}

	httperrors.Write(w, http.StatusOK, dto.AdminUsersResponse{Items: items})
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.beginUser(w, r)
	if !ok {
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, adminUserResponse(user))
}

func (h *AdminHandler) BanUser(w http.ResponseWriter, r *http.Request) {
	h.flagUser(w, r, h.service.Ban)
}

func (h *AdminHandler) UnbanUser(w http.ResponseWriter, r *http.Request) {
	h.flagUser(w, r, h.service.Unban)
}

func (h *AdminHandler) SuspendUser(w http.ResponseWriter, r *http.Request) {
	h.flagUser(w, r, h.service.Suspend)
}

func (h *AdminHandler) UnsuspendUser(w http.ResponseWriter, r *http.Request) {
	h.flagUser(w, r, h.service.Unsuspend)
}

func (h *AdminHandler) WarnUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.beginUser(w, r)
	if !ok {
		return
	}

	var req dto.AdminWarnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	warnings, err := h.service.Warn(r.Context(), userID, req.Message)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminWarnResponse{OK: true, WarningCount: warnings})
}

func (h *AdminHandler) Announce(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return
	}

	var req dto.AdminAnnounceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	notified, err := h.service.Announce(r.Context(), req.Title, req.Message)
	if err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.AdminAnnounceResponse{OK: true, Notified: notified})
}

func (h *AdminHandler) flagUser(w http.ResponseWriter, r *http.Request, apply func(context.Context, int64) error) {
	userID, ok := h.beginUser(w, r)
	if !ok {
		return
	}

	if err := apply(r.Context(), userID); err != nil {
		handleAdminError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.OKResponse{OK: true})
}

func (h *AdminHandler) beginUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	if h.service == nil {
		writeInternal(w, "USER_SERVICE_UNAVAILABLE", "user service is unavailable")
		return 0, false
	}

	userID := parseInt64OrDefault(chi.URLParam(r, "user_id"), 0)
	if userID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id must be a positive integer")
		return 0, false
	}

	return userID, true
}

func handleAdminError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, userssvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid admin request")
	case errors.Is(err, userssvc.ErrNotFound):
		writeNotFound(w, "USER_NOT_FOUND", "user not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "admin operation failed")
	}
}

func adminUserResponse(user pgrepo.UserRecord) dto.AdminUserResponse {
	return dto.AdminUserResponse{
		ID:                 user.ID,
		Email:              user.Email,
		Role:               user.Role,
		Banned:             user.Banned,
		Suspended:          user.Suspended,
		WarningCount:       user.WarningCount,
		OnboardingComplete: user.OnboardingComplete,
		CreatedAt:          user.CreatedAt.Format(time.RFC3339),
	}
}
