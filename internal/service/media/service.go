package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"campus-lostfound/internal/config"
	"campus-lostfound/internal/pkg/imaging"
)

var ErrStorageUnavailable = errors.New("image storage is not configured")

// ObjectStore is the slice of the MinIO client uploads need.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type Upload struct {
	URL    string `json:"url"`
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int    `json:"size"`
}

type Service interface {
	// UploadImage normalizes an item photo and stores it under the uploader's
	// prefix, returning its public URL.
	UploadImage(ctx context.Context, userID uuid.UUID, reader io.Reader) (*Upload, error)
}

type service struct {
	store ObjectStore
	cfg   *config.Config
	now   func() time.Time
}

func NewService(store ObjectStore, cfg *config.Config) Service {
	return &service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

func (s *service) UploadImage(ctx context.Context, userID uuid.UUID, reader io.Reader) (*Upload, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	img, err := imaging.Process(reader, s.cfg.UploadMaxBytes)
	if err != nil {
		return nil, err
	}

	storagePath := fmt.Sprintf("items/%s/%s/%s.jpg", userID, s.now().Format("2006/01"), uuid.New())

	_, err = s.store.PutObject(ctx, s.cfg.MinIOBucket, storagePath, bytes.NewReader(img.Data), int64(len(img.Data)), minio.PutObjectOptions{
		ContentType: img.MIME,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return &Upload{
		URL:    s.getPublicURL(storagePath),
		Path:   storagePath,
		Width:  img.Width,
		Height: img.Height,
		Size:   len(img.Data),
	}, nil
}

func (s *service) getPublicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: s.cfg.MinIOPublicEndpoint, Path: "/" + s.cfg.MinIOBucket + "/" + storagePath}
	return u.String()
}
