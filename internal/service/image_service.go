package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"awesomeblog/internal/apis"
	"awesomeblog/internal/models"
	"awesomeblog/internal/storage"
)

type ImageService interface {
	UploadImage(ctx context.Context, owner *models.User, fileName string, file io.Reader, size int64) (string, error)
}

type imageService struct {
	storage storage.Storage
	logger  *zap.Logger
}

// NewImageService accepts a nil storage; uploads then fail with
// upload:unavailable.
func NewImageService(storage storage.Storage, logger *zap.Logger) ImageService {
	return &imageService{storage: storage, logger: logger}
}

func (s *imageService) UploadImage(ctx context.Context, owner *models.User, fileName string, file io.Reader, size int64) (string, error) {
	if s.storage == nil {
		return "", apis.NewAPIError("upload:unavailable", "image", "Image storage is not configured.")
	}
	objectName, url, err := s.storage.UploadImage(ctx, owner.ID(), fileName, file, size)
	if err != nil {
		return "", err
	}
	s.logger.Info("image uploaded", zap.String("object", objectName), zap.String("user_id", owner.ID()))
	return url, nil
}
