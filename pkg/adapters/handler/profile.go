package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type updateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
}

// Get returns the signed-in user's record (dashboard header)
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "You must be signed in to use this endpoint")
		return
	}

	user, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// Update changes the username and/or profile image. Both fields are
// optional; an absent field is left unchanged.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "You must be signed in to use this endpoint")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Incorrect body shape")
		return
	}

	user, err := h.service.Update(r.Context(), userID, req.Name, req.Image)
	if err != nil {
		var fe domain.FieldErrors
		switch {
		case errors.As(err, &fe):
			respondFieldErrors(w, fe)
		case errors.Is(err, domain.ErrUsernameTaken):
			respondError(w, http.StatusBadRequest, "That username is already taken")
		case errors.Is(err, domain.ErrUserNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		default:
			respondError(w, http.StatusInternalServerError, "There was an error updating the user on the server")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}
