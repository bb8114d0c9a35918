package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

type fakeStorage struct {
	objects map[string][]byte // "bucket/key"
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Upload(_ context.Context, bucket, key string, body io.Reader, _ string, _ int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[bucket+"/"+key] = data

	return nil
}

func (s *fakeStorage) Delete(_ context.Context, bucket, key string) error {
	delete(s.objects, bucket+"/"+key)
	s.deleted = append(s.deleted, bucket+"/"+key)

	return nil
}

func (s *fakeStorage) SignedURL(_ context.Context, bucket, key string, _ time.Duration) (string, error) {
	return "https://signed.example.com/" + bucket + "/" + key, nil
}

type fakeMediaRepo struct {
	files     map[uint]domain.MediaFile
	nextID    uint
	createErr error
}

func newFakeMediaRepo() *fakeMediaRepo {
	return &fakeMediaRepo{files: make(map[uint]domain.MediaFile), nextID: 1}
}

func (r *fakeMediaRepo) Create(_ context.Context, file domain.MediaFile) (domain.MediaFile, error) {
	if r.createErr != nil {
		return domain.MediaFile{}, r.createErr
	}

	file.ID = r.nextID
	r.nextID++
	r.files[file.ID] = file

	return file, nil
}

func (r *fakeMediaRepo) FindByID(_ context.Context, id uint) (domain.MediaFile, error) {
	file, ok := r.files[id]
	if !ok {
		return domain.MediaFile{}, repository.ErrMediaNotFound
	}

	return file, nil
}

func (r *fakeMediaRepo) FindAll(_ context.Context) ([]domain.MediaFile, error) {
	all := make([]domain.MediaFile, 0, len(r.files))
	for _, f := range r.files {
		all = append(all, f)
	}

	return all, nil
}

func (r *fakeMediaRepo) Delete(_ context.Context, id uint) error {
	delete(r.files, id)

	return nil
}

func newTestMediaService() (*fakeMediaRepo, *fakeStorage, *MediaService) {
	repo := newFakeMediaRepo()
	storage := newFakeStorage()
	svc := NewMediaService(repo, storage, "media", "evidence")

	return repo, storage, svc
}

func TestMediaService_Upload(t *testing.T) {
	t.Run("stores the object and the metadata", func(t *testing.T) {
		repo, storage, svc := newTestMediaService()

		created, err := svc.Upload(context.Background(),
			"Tour video", "", "Factory Tour.mp4", "video/mp4", 1024, strings.NewReader("data"))

		require.NoError(t, err)
		assert.Contains(t, created.Key, "factory-tour-")
		assert.True(t, strings.HasSuffix(created.Key, ".mp4"))
		assert.Len(t, storage.objects, 1)
		assert.Len(t, repo.files, 1)
	})

	t.Run("rejects unsupported content types", func(t *testing.T) {
		_, _, svc := newTestMediaService()

		_, err := svc.Upload(context.Background(),
			"Nope", "", "script.sh", "application/x-sh", 10, strings.NewReader("#!"))

		assert.ErrorIs(t, err, ErrUnsupportedContentType)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		_, _, svc := newTestMediaService()

		_, err := svc.Upload(context.Background(),
			"Big", "", "big.mp4", "video/mp4", 51<<20, strings.NewReader(""))

		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("removes the object when the insert fails", func(t *testing.T) {
		repo, storage, svc := newTestMediaService()
		repo.createErr = errors.New("insert failed")

		_, err := svc.Upload(context.Background(),
			"Doomed", "", "pic.png", "image/png", 10, strings.NewReader("png"))

		require.Error(t, err)
		assert.Empty(t, storage.objects)
		assert.Len(t, storage.deleted, 1)
	})
}

func TestMediaService_List(t *testing.T) {
	repo, _, svc := newTestMediaService()
	repo.files[1] = domain.MediaFile{ID: 1, Key: "intro-abc123.mp4"}

	files, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "https://signed.example.com/media/intro-abc123.mp4", files[0].URL)
}

func TestMediaService_Delete(t *testing.T) {
	repo, storage, svc := newTestMediaService()
	repo.files[1] = domain.MediaFile{ID: 1, Key: "old-abc123.png"}
	storage.objects["media/old-abc123.png"] = []byte("png")

	err := svc.Delete(context.Background(), 1)

	require.NoError(t, err)
	assert.Empty(t, repo.files)
	assert.Empty(t, storage.objects)
}

func TestMediaService_UploadEvidence(t *testing.T) {
	t.Run("accepts images only", func(t *testing.T) {
		_, _, svc := newTestMediaService()

		_, err := svc.UploadEvidence(context.Background(),
			"clip.mp4", "video/mp4", 10, strings.NewReader("mp4"))

		assert.ErrorIs(t, err, ErrUnsupportedContentType)
	})

	t.Run("enforces the smaller evidence limit", func(t *testing.T) {
		_, _, svc := newTestMediaService()

		_, err := svc.UploadEvidence(context.Background(),
			"huge.jpg", "image/jpeg", 11<<20, strings.NewReader(""))

		assert.ErrorIs(t, err, ErrFileTooLarge)
	})

	t.Run("stores into the evidence bucket", func(t *testing.T) {
		_, storage, svc := newTestMediaService()

		key, err := svc.UploadEvidence(context.Background(),
			"proof.jpg", "image/jpeg", 10, strings.NewReader("jpg"))

		require.NoError(t, err)
		assert.Contains(t, storage.objects, "evidence/"+key)
	})
}
