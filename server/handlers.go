package server

import (
	"encoding/json"
	"net/http"

	"spoty/config"
	"spoty/core/session"
	"spoty/repository"
	"spoty/storage"
)

// APIHandler bundles the gateways the HTTP layer talks to. Handlers hold no
// business logic beyond required-field validation; everything else lives in
// the gateways and the session reconciler.
type APIHandler struct {
	genreRepo  repository.GenreRepository
	artistRepo repository.ArtistRepository
	songRepo   repository.SongRepository
	userRepo   repository.UserRepository
	reconciler *session.Reconciler
	uploader   storage.Uploader
	media      *storage.MinioStore // nil unless the self-hosted backend is configured
	cfg        *config.Config
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(
	genreRepo repository.GenreRepository,
	artistRepo repository.ArtistRepository,
	songRepo repository.SongRepository,
	userRepo repository.UserRepository,
	reconciler *session.Reconciler,
	uploader storage.Uploader,
	media *storage.MinioStore,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		genreRepo:  genreRepo,
		artistRepo: artistRepo,
		songRepo:   songRepo,
		userRepo:   userRepo,
		reconciler: reconciler,
		uploader:   uploader,
		media:      media,
		cfg:        cfg,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
