// Package storage keeps an optional MinIO-backed archive of delivered
// translations. The archive is best effort; jobs never fail on it.
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ghsss/real-time-translator-client/internal/logger"
)

const archiveBucket = "translations"

// Archive stores delivered audio in a MinIO bucket.
type Archive struct {
	mc     *minio.Client
	bucket string
}

// Config holds MinIO connection settings
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// NewArchive creates a new archive client
func NewArchive(cfg Config) (*Archive, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &Archive{mc: mc, bucket: archiveBucket}, nil
}

// Init creates the archive bucket if it doesn't exist
func (a *Archive) Init(ctx context.Context) error {
	exists, err := a.mc.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}

	if !exists {
		if err := a.mc.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", a.bucket, err)
		}
		logger.Info("bucket created", "bucket", a.bucket)
	}

	return nil
}

// Upload stores one delivered translation
func (a *Archive) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := a.mc.PutObject(ctx, a.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", a.bucket, name, err)
	}

	logger.Debug("translation archived", "name", name, "size", len(data))
	return nil
}

// Healthy checks if MinIO is reachable. Startup calls this before creating
// the bucket so a dead endpoint disables the archive instead of wedging it.
func (a *Archive) Healthy(ctx context.Context) bool {
	_, err := a.mc.BucketExists(ctx, a.bucket)
	return err == nil
}
