package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

type LinkHandler struct {
	service ports.LinkService
}

func NewLinkHandler(service ports.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

type createLinkRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type deleteLinkRequest struct {
	ID string `json:"id"`
}

type reorderRequest struct {
	Order []string `json:"order"`
}

// List returns the signed-in owner's links in display order
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "You must be signed in to use this endpoint")
		return
	}

	links, err := h.service.List(r.Context(), ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "There was an error retrieving your links")
		return
	}
	if links == nil {
		links = []domain.Link{}
	}

	respondJSON(w, http.StatusOK, links)
}

// ListPublic serves a profile's links by username, without ids
func (h *LinkHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	links, err := h.service.ListPublic(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, links)
}

func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "You must be signed in to use this endpoint")
		return
	}

	var req createLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Incorrect body shape")
		return
	}

	link, err := h.service.Create(r.Context(), ownerID, req.Title, req.URL)
	if err != nil {
		var fe domain.FieldErrors
		switch {
		case errors.As(err, &fe):
			respondFieldErrors(w, fe)
		case errors.Is(err, domain.ErrCollectionFull):
			respondError(w, http.StatusBadRequest, "You have reached the maximum of 5 links")
		default:
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, link)
}

func (h *LinkHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "You must be signed in to use this endpoint")
		return
	}

	var req deleteLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		respondError(w, http.StatusBadRequest, "Incorrect body shape")
		return
	}

	deleted, err := h.service.Delete(r.Context(), ownerID, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrLinkNotFound) {
			respondError(w, http.StatusBadRequest, "There was an error while deleting the link")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, deleted)
}

// Reorder replaces the display order with the submitted id permutation.
// A stale or tampered order (deleted id, foreign id, duplicate) rejects
// the whole request; nothing is dropped or re-inserted silently.
func (h *LinkHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusBadRequest, "You must be signed in to use this endpoint")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Order == nil {
		respondError(w, http.StatusBadRequest, "Incorrect body shape")
		return
	}

	links, err := h.service.Reorder(r.Context(), ownerID, req.Order)
	if err != nil {
		if errors.Is(err, domain.ErrOrderMismatch) {
			respondError(w, http.StatusBadRequest, "Requested order does not match your current links")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if links == nil {
		links = []domain.Link{}
	}

	respondJSON(w, http.StatusOK, links)
}
