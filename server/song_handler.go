package server

import (
	"encoding/json"
	"net/http"

	"spoty/logger"
	"spoty/model"
	"spoty/repository"

	"github.com/gorilla/mux"
)

// SongRequest is the create request body. Duration is optional, in seconds.
type SongRequest struct {
	Title    string   `json:"title"`
	AudioURL string   `json:"audioUrl"`
	ArtistID string   `json:"artistId"`
	Duration *float64 `json:"duration"`
}

// SongUpdateRequest is the partial update body; nil fields are untouched.
type SongUpdateRequest struct {
	Title    *string  `json:"title"`
	AudioURL *string  `json:"audioUrl"`
	ArtistID *string  `json:"artistId"`
	Duration *float64 `json:"duration"`
}

// GetSongsHandler lists all songs, title ascending.
func (h *APIHandler) GetSongsHandler(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songRepo.GetAll(r.Context())
	if err != nil {
		logger.Error("failed to list songs", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load songs")
		return
	}
	if songs == nil {
		songs = []*model.Song{}
	}
	respondJSON(w, http.StatusOK, songs)
}

// GetSongHandler fetches one song; a missing id is 404.
func (h *APIHandler) GetSongHandler(w http.ResponseWriter, r *http.Request) {
	song, err := h.songRepo.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		logger.Error("failed to fetch song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to load song")
		return
	}
	if song == nil {
		respondError(w, http.StatusNotFound, "Song not found")
		return
	}
	respondJSON(w, http.StatusOK, song)
}

// CreateSongHandler creates a song.
func (h *APIHandler) CreateSongHandler(w http.ResponseWriter, r *http.Request) {
	var req SongRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" || req.AudioURL == "" || req.ArtistID == "" {
		respondError(w, http.StatusBadRequest, "Title, audio and artist are required")
		return
	}
	if req.Duration != nil && *req.Duration < 0 {
		respondError(w, http.StatusBadRequest, "Duration cannot be negative")
		return
	}

	id, err := h.songRepo.Create(r.Context(), &model.Song{
		Title:    req.Title,
		AudioURL: req.AudioURL,
		ArtistID: req.ArtistID,
		Duration: req.Duration,
	})
	if err != nil {
		logger.Error("failed to create song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to create song")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateSongHandler applies a partial update.
func (h *APIHandler) UpdateSongHandler(w http.ResponseWriter, r *http.Request) {
	var req SongUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if (req.Title != nil && *req.Title == "") ||
		(req.AudioURL != nil && *req.AudioURL == "") ||
		(req.ArtistID != nil && *req.ArtistID == "") {
		respondError(w, http.StatusBadRequest, "Title, audio and artist cannot be empty")
		return
	}
	if req.Duration != nil && *req.Duration < 0 {
		respondError(w, http.StatusBadRequest, "Duration cannot be negative")
		return
	}

	err := h.songRepo.Update(r.Context(), mux.Vars(r)["id"], repository.SongUpdate{
		Title:    req.Title,
		AudioURL: req.AudioURL,
		ArtistID: req.ArtistID,
		Duration: req.Duration,
	})
	if err != nil {
		logger.Error("failed to update song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to update song")
		return
	}
	respondJSON(w, http.StatusOK, nil)
}

// DeleteSongHandler deletes a song.
func (h *APIHandler) DeleteSongHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.songRepo.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		logger.Error("failed to delete song", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete song")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
