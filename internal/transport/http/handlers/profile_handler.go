package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	pgrepo "github.com/olegbarkov/amora/internal/repo/postgres"
	authsvc "github.com/olegbarkov/amora/internal/services/auth"
	profilesvc "github.com/olegbarkov/amora/internal/services/profiles"
	"github.com/olegbarkov/amora/internal/transport/http/dto"
	httperrors "github.com/olegbarkov/amora/internal/transport/http/errors"
)

const birthdateLayout = "2006-01-02"

type ProfileHandler struct {
	service *profilesvc.Service
}

func NewProfileHandler(service *profilesvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	rec, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(rec))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.ProfileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	input := profilesvc.UpdateInput{
		DisplayName: req.DisplayName,
		Gender:      req.Gender,
		LookingFor:  req.LookingFor,
		Bio:         req.Bio,
		City:        req.City,
	}
	if raw := strings.TrimSpace(req.Birthdate); raw != "" {
		birthdate, err := time.Parse(birthdateLayout, raw)
		if err != nil {
			writeBadRequest(w, "VALIDATION_ERROR", "birthdate must be YYYY-MM-DD")
			return
		}
		input.Birthdate = &birthdate
	}

	rec, err := h.service.Update(r.Context(), identity.UserID, input)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(rec))
}

func (h *ProfileHandler) GetPrivacy(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	rec, err := h.service.GetPrivacy(r.Context(), identity.UserID)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PrivacyResponse{
		ProfileVisible: rec.ProfileVisible,
		SelectiveMode:  rec.SelectiveMode,
	})
}

func (h *ProfileHandler) UpdatePrivacy(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	var req dto.PrivacyUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	rec, err := h.service.UpdatePrivacy(r.Context(), identity.UserID, req.ProfileVisible, req.SelectiveMode)
	if err != nil {
		handleProfileError(w, err)
		return
	}

	httperrors.Write(w, http.StatusOK, dto.PrivacyResponse{
		ProfileVisible: rec.ProfileVisible,
		SelectiveMode:  rec.SelectiveMode,
	})
}

func handleProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profilesvc.ErrUnderage):
		writeBadRequest(w, "VALIDATION_ERROR", "must be at least 18 years old")
	case errors.Is(err, profilesvc.ErrValidation):
		writeBadRequest(w, "VALIDATION_ERROR", "invalid profile data")
	case errors.Is(err, profilesvc.ErrNotFound):
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
	default:
		writeInternal(w, "INTERNAL_ERROR", "profile operation failed")
	}
}

func profileResponse(rec pgrepo.ProfileRecord) dto.ProfileResponse {
	resp := dto.ProfileResponse{
		UserID:      rec.UserID,
		DisplayName: rec.DisplayName,
		Gender:      rec.Gender,
		LookingFor:  rec.LookingFor,
		Bio:         rec.Bio,
		City:        rec.City,
	}
	if rec.Birthdate != nil {
		resp.Birthdate = rec.Birthdate.Format(birthdateLayout)
	}
	return resp
}
