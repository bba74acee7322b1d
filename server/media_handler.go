package server

import (
	"io"
	"net/http"
	"strings"

	"spoty/logger"
)

// MediaHandler streams objects from the self-hosted asset backend. Only
// mounted when MinIO is configured; assets on the hosted CDN are fetched by
// the browser directly from their secure URL.
func (h *APIHandler) MediaHandler(w http.ResponseWriter, r *http.Request) {
	if h.media == nil {
		respondError(w, http.StatusNotFound, "Self-hosted media is not enabled")
		return
	}

	objectName := strings.TrimPrefix(r.URL.Path, "/media/")
	if objectName == "" {
		respondError(w, http.StatusBadRequest, "Object path is required")
		return
	}

	object, err := h.media.Open(r.Context(), objectName)
	if err != nil {
		respondError(w, http.StatusNotFound, "File not found")
		return
	}
	defer object.Close()

	var contentType string
	switch {
	case strings.HasSuffix(objectName, ".mp3"):
		contentType = "audio/mpeg"
	case strings.HasSuffix(objectName, ".jpg"), strings.HasSuffix(objectName, ".jpeg"):
		contentType = "image/jpeg"
	case strings.HasSuffix(objectName, ".png"):
		contentType = "image/png"
	default:
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	if _, err := io.Copy(w, object); err != nil {
		logger.Error("error streaming media object",
			logger.String("object", objectName),
			logger.ErrorField(err))
	}
}
