package server

import (
	"encoding/json"
	"net/http"

	"spoty/logger"
	"spoty/model"
	"spoty/repository"

	"github.com/gorilla/mux"
)

// ArtistRequest is the create request body.
type ArtistRequest struct {
	Name        string  `json:"name"`
	ImageURL    string  `json:"imageUrl"`
	GenreID     string  `json:"genreId"`
	Description *string `json:"description"`
}

// ArtistUpdateRequest is the partial update body; nil fields are untouched.
type ArtistUpdateRequest struct {
	Name        *string `json:"name"`
	ImageURL    *string `json:"imageUrl"`
	GenreID     *string `json:"genreId"`
	Description *string `json:"description"`
}

// GetArtistsHandler lists all artists, name ascending.
func (h *APIHandler) GetArtistsHandler(w http.ResponseWriter, r *http.Request) {
	artists, err := h.artistRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to list artists", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load artists")
		return
	}
	if artists == nil {
		artists = []*model.Artist{}
	}
	respondJSON(w, http.StatusOK, artists)
}

// GetArtistHandler fetches one artist; a missing id is 404.
func (h *APIHandler) GetArtistHandler(w http.ResponseWriter, r *http.Request) {
	artist, err := h.artistRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Error("failed to fetch artist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load artist")
		return
	}
	if artist == nil {
		respondError(w, http.StatusNotFound, "Artist not found")
		return
	}
	respondJSON(w, http.StatusOK, artist)
}

// GetArtistSongsHandler lists the songs of one artist.
func (h *APIHandler) GetArtistSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.GetByArtist(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Error("failed to list songs by artist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load songs")
		return
	}
	if songs == nil {
		songs = []*model.Song{}
	}
	respondJSON(w, http.StatusOK, songs)
}

// CreateArtistHandler creates an artist. The genre reference is required but
// not checked for existence; referential integrity is not enforced anywhere.
func (h *APIHandler) CreateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req ArtistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" || req.ImageURL == "" || req.GenreID == "" {
		respondError(w, http.StatusBadRequest, "Name, image and genre are required")
		return
	}

	id, err := h.artistRepo.Create(r.Context(), &model.Artist{
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		GenreID:     req.GenreID,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("failed to create artist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create artist")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateArtistHandler applies a partial update.
func (h *APIHandler) UpdateArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req ArtistUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.Name != nil && *req.Name == "") ||
		(req.ImageURL != nil && *req.ImageURL == "") ||
		(req.GenreID != nil && *req.GenreID == "") {
		respondError(w, http.StatusBadRequest, "Name, image and genre cannot be empty")
		return
	}

	err := h.artistRepo.Update(r.Context(), mux.Vars(r)["id"], repository.ArtistUpdate{
		Name:        req.Name,
		ImageURL:    req.ImageURL,
		GenreID:     req.GenreID,
		Description: req.Description,
	})
	if err != nil {
		logger.Error("failed to update artist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update artist")
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// DeleteArtistHandler deletes an artist. No cascade to its songs.
func (h *APIHandler) DeleteArtistHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.artistRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logger.Error("failed to delete artist", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete artist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
