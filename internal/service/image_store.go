package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fridgechef/backend/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	imageExtension = ".jpg"
	mediaURLPath   = "/media/"
	s3ImagePrefix  = "recipe-images/"
)

func newImageFileName() string {
	return uuid.New().String() + imageExtension
}

// LocalImageStore writes images into the media directory served under /media/.
type LocalImageStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

func NewLocalImageStore(dir, baseURL string, logger *zap.Logger) (*LocalImageStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &LocalImageStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}, nil
}

func (s *LocalImageStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fileName := newImageFileName()
	if err := os.WriteFile(filepath.Join(s.dir, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	imageURL := s.baseURL + mediaURLPath + fileName
	s.logger.Info("stored recipe image", zap.String("recipe", name), zap.String("url", imageURL))
	return imageURL, nil
}

// S3ImageStore uploads images to the configured bucket.
type S3ImageStore struct {
	s3Config *config.S3Config
	logger   *zap.Logger
}

func NewS3ImageStore(s3Config *config.S3Config, logger *zap.Logger) *S3ImageStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &S3ImageStore{s3Config: s3Config, logger: logger}
}

// Save uploads image data to S3 and returns the public URL
func (s *S3ImageStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	key := s3ImagePrefix + newImageFileName()
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.s3Config.PublicURL(key)
	s.logger.Info("uploaded recipe image to S3", zap.String("recipe", name), zap.String("url", publicURL))
	return publicURL, nil
}
