package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"awesomeblog/internal/config"
)

type Storage interface {
	UploadImage(ctx context.Context, ownerID string, fileName string, file io.Reader, size int64) (string, string, error)
	DeleteImage(ctx context.Context, objectName string) error
	GetImageURL(objectName string) string
}

type MinIOClient struct {
	client *minio.Client
	config config.MinIO
	logger *zap.Logger
}

func NewMinIOClient(cfg config.MinIO, logger *zap.Logger) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOClient{client: client, config: cfg, logger: logger}, nil
}

// EnsureBucket creates the configured bucket when it is missing.
func (m *MinIOClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.config.BucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.config.BucketName, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.config.BucketName, minio.MakeBucketOptions{Region: m.config.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", m.config.BucketName, err)
	}
	m.logger.Info("created bucket", zap.String("bucket", m.config.BucketName))
	return nil
}

func (m *MinIOClient) UploadImage(ctx context.Context, ownerID string, fileName string, file io.Reader, size int64) (string, string, error) {
	now := time.Now()
	objectName := ObjectName(ownerID, fileName, now)

	_, err := m.client.PutObject(ctx, m.config.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: ContentType(fileName),
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"owner-id":          ownerID,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", objectName, err)
	}

	return objectName, m.GetImageURL(objectName), nil
}

func (m *MinIOClient) DeleteImage(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.BucketName, objectName,
		minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("delete %s: %w", objectName, err)
	}
	return nil
}

func (m *MinIOClient) GetImageURL(objectName string) string {
	return ImageURL(m.config, objectName)
}

// ObjectName places an upload under images/<owner>/<year>/<month>/ with a
// random name that keeps the original extension.
func ObjectName(ownerID, fileName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("images/%s/%d/%02d/%s%s", ownerID, now.Year(), now.Month(), uuid.NewString(), ext)
}

func ContentType(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		ext = ".jpg"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ImageURL is the public address of an object. PublicURL wins over the
// endpoint when set.
func ImageURL(cfg config.MinIO, objectName string) string {
	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.BucketName, objectName)
}
