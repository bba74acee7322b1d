package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"spoty/config"
	"spoty/logger"
)

const defaultCloudinaryBaseURL = "https://api.cloudinary.com/v1_1"

// CloudinaryClient uploads assets to Cloudinary via unsigned multipart
// uploads. Audio rides the video endpoint: Cloudinary has no first-class
// audio resource type.
type CloudinaryClient struct {
	cloudName    string
	uploadPreset string
	baseURL      string
	httpClient   *http.Client
}

// NewCloudinaryClient creates a CloudinaryClient. A missing cloud name is not
// an error here; it surfaces as ErrMissingConfiguration on the first upload.
func NewCloudinaryClient(cfg *config.Config) *CloudinaryClient {
	return &CloudinaryClient{
		cloudName:    cfg.CloudinaryCloudName,
		uploadPreset: cfg.CloudinaryUploadPreset,
		baseURL:      defaultCloudinaryBaseURL,
		httpClient:   &http.Client{Timeout: 60 * time.Second},
	}
}

// Upload submits one file. Exactly one attempt, no retry; the caller is
// responsible for any size precondition.
func (c *CloudinaryClient) Upload(ctx context.Context, file io.Reader, filename string, kind Kind, folder string) (*UploadResult, error) {
	if c.cloudName == "" {
		return nil, ErrMissingConfiguration
	}

	endpoint := "image"
	if kind == KindAudio {
		endpoint = "video"
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read upload payload: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("folder", folder); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if kind == KindAudio {
		if err := writer.WriteField("resource_type", "video"); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s/upload", c.baseURL, c.cloudName, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("asset host returned error",
			logger.Int("status", resp.StatusCode),
			logger.String("body", string(respBody)))
		return nil, classifyHostError(respBody, resp.StatusCode, resp.Status)
	}

	result := &UploadResult{}
	if err := json.Unmarshal(respBody, result); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return result, nil
}

// Delete is deliberately unsupported: deletion needs the API secret, which
// this layer does not hold.
func (c *CloudinaryClient) Delete(ctx context.Context, publicID string, kind Kind) error {
	logger.Info("asset deletion requested but unsupported",
		logger.String("publicId", publicID),
		logger.String("kind", string(kind)))
	return ErrDeleteUnsupported
}

// classifyHostError maps the host's raw error body onto the fixed taxonomy.
// The structured error message is preferred; substring matching against it is
// how the host distinguishes its own failure modes, so the match set here
// must move with the host's message wording.
func classifyHostError(body []byte, status int, statusText string) error {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Error.Message == "" {
		return &HostUnreachableError{Status: status, StatusText: statusText}
	}

	msg := parsed.Error.Message
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "upload preset"):
		return ErrInvalidUploadPreset
	case strings.Contains(lower, "cloud name"), strings.Contains(lower, "cloud_name"):
		return ErrInvalidCloudIdentifier
	default:
		return &HostRejectedError{Message: msg}
	}
}
