package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var (
	ErrMediaNotFound          = repository.ErrMediaNotFound
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrFileTooLarge           = errors.New("file exceeds the size limit")
)

const (
	maxMediaBytes    = 50 << 20
	maxEvidenceBytes = 10 << 20
	signedURLExpiry  = 15 * time.Minute
)

var mediaContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"application/pdf": true,
}

type ObjectStorage interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string, size int64) error
	Delete(ctx context.Context, bucket, key string) error
	SignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

type MediaRepository interface {
	Create(ctx context.Context, file domain.MediaFile) (domain.MediaFile, error)
	FindByID(ctx context.Context, id uint) (domain.MediaFile, error)
	FindAll(ctx context.Context) ([]domain.MediaFile, error)
	Delete(ctx context.Context, id uint) error
}

type MediaService struct {
	repo           MediaRepository
	storage        ObjectStorage
	mediaBucket    string
	evidenceBucket string
}

func NewMediaService(repo MediaRepository, storage ObjectStorage, mediaBucket, evidenceBucket string) *MediaService {
	return &MediaService{
		repo:           repo,
		storage:        storage,
		mediaBucket:    mediaBucket,
		evidenceBucket: evidenceBucket,
	}
}

// Upload stores the object first, then the metadata row. The two stores have
// no transactional link, so a failed insert rolls the object back by hand.
func (s *MediaService) Upload(ctx context.Context, title, description, filename, contentType string, size int64, body io.Reader) (domain.MediaFile, error) {
	if !mediaContentTypes[contentType] {
		return domain.MediaFile{}, ErrUnsupportedContentType
	}
	if size > maxMediaBytes {
		return domain.MediaFile{}, ErrFileTooLarge
	}

	key := objectKey(filename)
	if err := s.storage.Upload(ctx, s.mediaBucket, key, body, contentType, size); err != nil {
		return domain.MediaFile{}, fmt.Errorf("s.storage.Upload -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.MediaFile{
		Key:         key,
		Title:       title,
		Description: description,
		ContentType: contentType,
		SizeBytes:   size,
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, s.mediaBucket, key); delErr != nil {
			zap.L().Warn("failed to remove orphaned media object",
				zap.String("key", key), zap.Error(delErr))
		}

		return domain.MediaFile{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// List returns all metadata rows with fresh signed URLs.
func (s *MediaService) List(ctx context.Context) ([]domain.MediaFile, error) {
	files, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	for i := range files {
		url, err := s.storage.SignedURL(ctx, s.mediaBucket, files[i].Key, signedURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("s.storage.SignedURL -> %w", err)
		}
		files[i].URL = url
	}

	return files, nil
}

func (s *MediaService) Delete(ctx context.Context, id uint) error {
	file, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.storage.Delete(ctx, s.mediaBucket, file.Key); err != nil {
		return fmt.Errorf("s.storage.Delete -> %w", err)
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// UploadEvidence stores a mission evidence photo and returns its object key.
// Evidence has no metadata row; completions reference the key directly.
func (s *MediaService) UploadEvidence(ctx context.Context, filename, contentType string, size int64, body io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrUnsupportedContentType
	}
	if size > maxEvidenceBytes {
		return "", ErrFileTooLarge
	}

	key := objectKey(filename)
	if err := s.storage.Upload(ctx, s.evidenceBucket, key, body, contentType, size); err != nil {
		return "", fmt.Errorf("s.storage.Upload -> %w", err)
	}

	return key, nil
}

func (s *MediaService) EvidenceURL(ctx context.Context, key string) (string, error) {
	url, err := s.storage.SignedURL(ctx, s.evidenceBucket, key, signedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("s.storage.SignedURL -> %w", err)
	}

	return url, nil
}

func objectKey(filename string) string {
	ext := path.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	return fmt.Sprintf("%s-%s%s", slug.Make(base), uuid.NewString()[:8], strings.ToLower(ext))
}
