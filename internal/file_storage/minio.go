package filestorage

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

const PresignExpiry = time.Hour

func NewMinioClient(cfg *config.MinioConfig) (*minio.Client, error) {
	return minio.New(cfg.ENDPOINT, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ACCESS_KEY, cfg.SECRET_KEY, ""),
		Secure: cfg.USE_SSL,
		Region: "us-east-1",
	})
}

// Storage resolves the asset names the upload service stored in the bucket. The api
// never reads or writes file bytes.
type Storage struct {
	client *minio.Client
	bucket string
	logger *zap.SugaredLogger
}

func NewStorage(cfg *config.MinioConfig, logger *zap.SugaredLogger) (*Storage, error) {
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Storage{client: client, bucket: cfg.BUCKET, logger: logger}, nil
}

// IsAbsoluteURL reports names that already point somewhere, such as a remote trailer link.
func IsAbsoluteURL(name string) bool {
	u, err := url.Parse(name)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *Storage) objectName(name string) string {
	return strings.TrimPrefix(name, "/")
}

func (s *Storage) PresignGet(ctx context.Context, name string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, s.objectName(name), expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// URLs maps every asset field to a fetchable URL. Absolute URLs pass through. Without
// storage, or when presigning fails, the stored name is returned.
func (s *Storage) URLs(ctx context.Context, assets map[string]string) map[string]string {
	out := make(map[string]string, len(assets))
	for field, name := range assets {
		if s == nil || IsAbsoluteURL(name) {
			out[field] = name
			continue
		}

		signed, err := s.PresignGet(ctx, name, PresignExpiry)
		if err != nil {
			s.logger.Warnf("Failed to presign asset %s: %v", name, err)
			out[field] = name
			continue
		}
		out[field] = signed
	}
	return out
}

// Remove deletes the stored objects. Absolute URLs are skipped and failures are only
// logged since the database row is already gone.
func (s *Storage) Remove(ctx context.Context, assets map[string]string) {
	if s == nil {
		return
	}

	for _, name := range assets {
		if IsAbsoluteURL(name) {
			continue
		}
		if err := s.client.RemoveObject(ctx, s.bucket, s.objectName(name), minio.RemoveObjectOptions{}); err != nil {
			s.logger.Warnf("Failed to remove asset %s: %v", name, err)
		}
	}
}
