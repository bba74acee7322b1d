package server

import (
	"encoding/json"
	"net/http"

	"spoty/logger"
	"spoty/model"
	"spoty/repository"

	"github.com/gorilla/mux"
)

// GenreRequest is the create request body. Description stays a pointer so an
// omitted field is never written as empty.
type GenreRequest struct {
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl"`
	Description *string `json:"description"`
}

// GenreUpdateRequest is the partial update body; nil fields are untouched.
type GenreUpdateRequest struct {
	Name        *string `json:"name"`
	ImageURL    *string `json:"imageUrl"`
	Description *string `json:"description"`
}

// GetGenresHandler lists all genres, name ascending.
func (h *APIHandler) GetGenresHandler(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genreRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to list genres", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load genres")
		return
	}
	if genres == nil {
		genres = []*model.Genre{}
	}
	respondJSON(w, http.StatusOK, genres)
}

// GetGenreHandler fetches one genre; a missing id is 404, not a server error.
func (h *APIHandler) GetGenreHandler(w http.ResponseWriter, r *http.Request) {
	genre, err := h.genreRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Error("failed to fetch genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load genre")
		return
	}
	if genre == nil {
		respondError(w, http.StatusNotFound, "Genre not found")
		return
	}
	respondJSON(w, http.StatusOK, genre)
}

// GetGenreArtistsHandler lists the artists of one genre.
func (h *APIHandler) GetGenreArtistsHandler(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistRepo.GetByGenre(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Error("failed to list artists by genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load artists")
		return
	}
	if artists == nil {
		artists = []*model.Artist{}
	}
	respondJSON(w, http.StatusOK, artists)
}

// CreateGenreHandler creates a genre. Required-field validation happens here,
// before the gateway is invoked; the gateway itself does not validate.
func (h *APIHandler) CreateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req GenreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "Name and image are required")
		return
	}

	id, err := h.genreRepo.Create(r.Context(), &model.Genre{
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("failed to create genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create genre")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateGenreHandler applies a partial update.
func (h *APIHandler) UpdateGenreHandler(w http.ResponseWriter, r *http.Request) {
	var req GenreUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.Name != nil && *req.Name == "") || (req.ImageURL != nil && *req.ImageURL == "") {
		respondError(w, http.StatusBadRequest, "Name and image cannot be empty")
		return
	}

	err := h.genreRepo.Update(r.Context(), mux.Vars(r)["id"], repository.GenreUpdate{
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("failed to update genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update genre")
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// DeleteGenreHandler deletes a genre. No cascade: the genre's artists keep
// their dangling reference.
func (h *APIHandler) DeleteGenreHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.genreRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logger.Error("failed to delete genre", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete genre")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
