package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spoty/cache"
	"spoty/config"
	"spoty/core/auth"
	"spoty/core/session"
	"spoty/db"
	"spoty/logger"
	"spoty/model"
	"spoty/repository"
	"spoty/storage"

	"github.com/gorilla/mux"
)

// Start initializes dependencies and runs the HTTP server until interrupted.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.InfoLevel,
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if err := db.AutoMigrateModels(&model.Credential{}); err != nil {
		logger.Fatal("Failed to migrate credential table", logger.ErrorField(err))
	}

	catalogCache := cache.NewCatalogCache(db.RedisClient)
	genreRepo := cache.NewCachedGenreRepository(repository.NewMySQLGenreRepository(db.DB), catalogCache)
	artistRepo := cache.NewCachedArtistRepository(repository.NewMySQLArtistRepository(db.DB), catalogCache)
	songRepo := cache.NewCachedSongRepository(repository.NewMySQLSongRepository(db.DB), catalogCache)
	userRepo := repository.NewMySQLUserRepository(db.DB)
	credRepo := repository.NewGormCredentialRepository(db.GormDB)

	tokens := auth.NewTokenManager(cfg.JWTSecret, db.RedisClient)
	provider := auth.NewLocalProvider(cfg, credRepo, tokens)
	reconciler := session.NewReconciler(provider, userRepo)

	var uploader storage.Uploader
	var media *storage.MinioStore
	if cfg.AssetBackend == "minio" {
		store, err := storage.NewMinioStore(cfg)
		if err != nil {
			logger.Fatal("Failed to initialize MinIO asset backend", logger.ErrorField(err))
		}
		uploader = store
		media = store
		logger.Info("Using self-hosted MinIO asset backend", logger.String("bucket", cfg.MinioBucket))
	} else {
		uploader = storage.NewCloudinaryClient(cfg)
	}

	apiHandler := NewAPIHandler(genreRepo, artistRepo, songRepo, userRepo, reconciler, uploader, media, cfg)

	router := mux.NewRouter()

	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Session endpoints.
	router.HandleFunc("/api/auth/register", apiHandler.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", apiHandler.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", apiHandler.LogoutHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/federated/{kind}", apiHandler.FederatedStartHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/federated/{kind}", apiHandler.FederatedHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/session", apiHandler.SessionHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/session/events", apiHandler.SessionEventsHandler)

	// Catalog reads, behind a restored session.
	router.HandleFunc("/api/genres", apiHandler.AuthMiddleware(apiHandler.GetGenresHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/genres/{id}", apiHandler.AuthMiddleware(apiHandler.GetGenreHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/genres/{id}/artists", apiHandler.AuthMiddleware(apiHandler.GetGenreArtistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/artists", apiHandler.AuthMiddleware(apiHandler.GetArtistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}", apiHandler.AuthMiddleware(apiHandler.GetArtistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/artists/{id}/songs", apiHandler.AuthMiddleware(apiHandler.GetArtistSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", apiHandler.AuthMiddleware(apiHandler.GetSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", apiHandler.AuthMiddleware(apiHandler.GetSongHandler)).Methods(http.MethodGet)

	// Catalog writes and uploads, admin only.
	router.HandleFunc("/api/genres", apiHandler.AdminMiddleware(apiHandler.CreateGenreHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/genres/{id}", apiHandler.AdminMiddleware(apiHandler.UpdateGenreHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/genres/{id}", apiHandler.AdminMiddleware(apiHandler.DeleteGenreHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/artists", apiHandler.AdminMiddleware(apiHandler.CreateArtistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/artists/{id}", apiHandler.AdminMiddleware(apiHandler.UpdateArtistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/artists/{id}", apiHandler.AdminMiddleware(apiHandler.DeleteArtistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/songs", apiHandler.AdminMiddleware(apiHandler.CreateSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}", apiHandler.AdminMiddleware(apiHandler.UpdateSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}", apiHandler.AdminMiddleware(apiHandler.DeleteSongHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/upload", apiHandler.AdminMiddleware(apiHandler.UploadHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/upload", apiHandler.AdminMiddleware(apiHandler.DeleteAssetHandler)).Methods(http.MethodDelete)

	// Self-hosted media serving.
	router.PathPrefix("/media/").HandlerFunc(apiHandler.MediaHandler).Methods(http.MethodGet)

	httpServer.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}
