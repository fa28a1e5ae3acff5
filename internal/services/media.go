package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"

	"github.com/clubhq/clubhub/backend/internal/config"
	"github.com/clubhq/clubhub/backend/pkg/logger"
	"github.com/clubhq/clubhub/backend/pkg/response"
)

// allowed upload extensions, lowercase
var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MediaService stores uploaded images in a GCS bucket behind a circuit
// breaker, so a flapping media backend degrades uploads without taking
// the rest of the API down with it.
type MediaService struct {
	client  *storage.Client
	bucket  string
	breaker *gobreaker.CircuitBreaker
}

func NewMediaService(ctx context.Context, cfg *config.MediaConfig) (*MediaService, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "media-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("media store breaker state change")
		},
	})

	return &MediaService{client: client, bucket: cfg.Bucket, breaker: breaker}, nil
}

// UploadResult points at the stored object. Object is the bucket key,
// kept so the record owner can delete the file later.
type UploadResult struct {
	URL    string `json:"url"`
	Object string `json:"object"`
}

// Upload stores one image under a fresh uuid name and returns its public
// URL. The original filename only contributes the extension.
func (s *MediaService) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return nil, response.NewValidation("unsupported file type")
	}

	object := "uploads/" + uuid.NewString() + ext

	_, err := s.breaker.Execute(func() (interface{}, error) {
		w := s.client.Bucket(s.bucket).Object(object).NewWriter(ctx)
		w.ContentType = contentTypeFor(ext)
		if _, err := io.Copy(w, r); err != nil {
			w.Close()
			return nil, err
		}
		return nil, w.Close()
	})
	if err != nil {
		logger.Error().Err(err).Str("object", object).Msg("media upload failed")
		return nil, response.NewInternal("media upload failed")
	}

	return &UploadResult{
		URL:    fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, object),
		Object: object,
	}, nil
}

// Delete removes a stored object. A missing object is not an error.
func (s *MediaService) Delete(ctx context.Context, object string) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		err := s.client.Bucket(s.bucket).Object(object).Delete(ctx)
		if err == storage.ErrObjectNotExist {
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		logger.Error().Err(err).Str("object", object).Msg("media delete failed")
		return response.NewInternal("media delete failed")
	}
	return nil
}

func (s *MediaService) Close() error {
	return s.client.Close()
}

func contentTypeFor(ext string) string {
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
