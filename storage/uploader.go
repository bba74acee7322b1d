package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Kind is the media kind being uploaded.
type Kind string

const (
	KindImage Kind = "image"
	KindAudio Kind = "audio"
)

// UploadResult is the durable address of an uploaded asset.
type UploadResult struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	ResourceType string `json:"resource_type,omitempty"`
	Format       string `json:"format,omitempty"`
}

// Uploader uploads a single binary file to an asset backend and returns its
// durable public address. Implementations perform no client-side validation
// and make exactly one attempt per call.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string, kind Kind, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// The failure taxonomy callers may branch on. Exactly these categories; if
// the host is ever swapped the replacement must map into the same set.
var (
	// ErrMissingConfiguration means the host identifier is absent from the
	// environment. Raised before any network call.
	ErrMissingConfiguration = errors.New("asset host not configured")
	// ErrInvalidUploadPreset means the host rejected the upload preset.
	ErrInvalidUploadPreset = errors.New("upload preset not found, check the asset host configuration")
	// ErrInvalidCloudIdentifier means the host rejected the cloud identifier.
	ErrInvalidCloudIdentifier = errors.New("invalid cloud identifier, verify the asset host configuration")
	// ErrDeleteUnsupported means deletion needs a privileged server-side
	// credential this deployment doesn't hold. An explicit result so callers
	// can't mistake it for completed work.
	ErrDeleteUnsupported = errors.New("asset deletion is not supported by this backend")
)

// HostRejectedError carries a structured error message from the host.
type HostRejectedError struct {
	Message string
}

func (e *HostRejectedError) Error() string {
	return fmt.Sprintf("asset host rejected upload: %s", e.Message)
}

// HostUnreachableError is a non-2xx response with an unparseable body.
type HostUnreachableError struct {
	Status     int
	StatusText string
}

func (e *HostUnreachableError) Error() string {
	return fmt.Sprintf("upload failed: %d %s", e.Status, e.StatusText)
}
