package server

import (
	"errors"
	"net/http"

	"spoty/logger"
	"spoty/storage"
)

// maxUploadBytes is the caller-side precondition on upload size. The gateway
// itself performs no validation.
const maxUploadBytes = 10 << 20 // 10 MiB

// UploadHandler proxies a single media file to the asset backend. Multipart
// fields: file, kind (image|audio), folder.
func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "File exceeds the 10 MiB upload limit")
		return
	}

	kind := storage.Kind(r.FormValue("kind"))
	if kind != storage.KindImage && kind != storage.KindAudio {
		respondError(w, http.StatusBadRequest, "Kind must be image or audio")
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		respondError(w, http.StatusBadRequest, "Destination folder is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "A file is required")
		return
	}
	defer file.Close()

	result, err := h.uploader.Upload(r.Context(), file, header.Filename, kind, folder)
	if err != nil {
		logger.Error("asset upload failed",
			logger.String("kind", string(kind)),
			logger.String("folder", folder),
			logger.ErrorField(err))
		status, message := uploadErrorResponse(err)
		respondError(w, status, message)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// uploadErrorResponse maps the gateway's failure taxonomy to HTTP responses.
func uploadErrorResponse(err error) (int, string) {
	var rejected *storage.HostRejectedError
	var unreachable *storage.HostUnreachableError
	switch {
	case errors.Is(err, storage.ErrMissingConfiguration):
		return http.StatusInternalServerError, "Asset host is not configured"
	case errors.Is(err, storage.ErrInvalidUploadPreset):
		return http.StatusBadGateway, storage.ErrInvalidUploadPreset.Error()
	case errors.Is(err, storage.ErrInvalidCloudIdentifier):
		return http.StatusBadGateway, storage.ErrInvalidCloudIdentifier.Error()
	case errors.As(err, &rejected):
		return http.StatusBadGateway, rejected.Error()
	case errors.As(err, &unreachable):
		return http.StatusBadGateway, unreachable.Error()
	default:
		return http.StatusInternalServerError, "Upload failed"
	}
}

// DeleteAssetHandler forwards a deletion request to the backend. The hosted
// backend reports deletion as unsupported rather than pretending success.
func (h *APIHandler) DeleteAssetHandler(w http.ResponseWriter, r *http.Request) {
	publicID := r.URL.Query().Get("publicId")
	if publicID == "" {
		respondError(w, http.StatusBadRequest, "publicId is required")
		return
	}
	kind := storage.Kind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = storage.KindImage
	}

	if err := h.uploader.Delete(r.Context(), publicID, kind); err != nil {
		if errors.Is(err, storage.ErrDeleteUnsupported) {
			respondError(w, http.StatusNotImplemented, storage.ErrDeleteUnsupported.Error())
			return
		}
		logger.Error("asset deletion failed", logger.String("publicId", publicID), logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "Failed to delete asset")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
