package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"spoty/config"
	"spoty/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore is the self-hosted asset backend: same Uploader contract as the
// hosted CDN, against a MinIO bucket, with real deletion and objects served
// back through the /media/ route.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	if cfg.MinioEndpoint == "" {
		return nil, ErrMissingConfiguration
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{Region: cfg.MinioRegion}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("created asset bucket", logger.String("bucket", cfg.MinioBucket))
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &MinioStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Upload stores one file under folder/ with a generated object name.
func (s *MinioStore) Upload(ctx context.Context, file io.Reader, filename string, kind Kind, folder string) (*UploadResult, error) {
	objectName := fmt.Sprintf("%s/%s%s", strings.Trim(folder, "/"), uuid.NewString(), path.Ext(filename))

	contentType := "application/octet-stream"
	switch kind {
	case KindImage:
		contentType = "image/jpeg"
	case KindAudio:
		contentType = "audio/mpeg"
	}

	_, err := s.client.PutObject(ctx, s.bucket, objectName, file, -1, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store object %s: %w", objectName, err)
	}

	return &UploadResult{
		PublicID:     objectName,
		SecureURL:    s.publicURL + "/" + objectName,
		ResourceType: string(kind),
		Format:       strings.TrimPrefix(path.Ext(filename), "."),
	}, nil
}

// Delete removes the object. Unlike the hosted backend this is a real delete.
func (s *MinioStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", publicID, err)
	}
	return nil
}

// Open streams an object for the media serving route.
func (s *MinioStore) Open(ctx context.Context, objectName string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open object %s: %w", objectName, err)
	}
	return object, nil
}
