package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var ErrMediaNotFound = dao.ErrMediaNotFound

type MediaDAO interface {
	Insert(ctx context.Context, file dao.MediaFile) (dao.MediaFile, error)
	FindByID(ctx context.Context, id uint) (dao.MediaFile, error)
	FindAll(ctx context.Context) ([]dao.MediaFile, error)
	Delete(ctx context.Context, id uint) error
}

type MediaRepository struct {
	dao MediaDAO
}

func NewMediaRepository(dao MediaDAO) *MediaRepository {
	return &MediaRepository{
		dao: dao,
	}
}

func (r *MediaRepository) Create(ctx context.Context, file domain.MediaFile) (domain.MediaFile, error) {
	created, err := r.dao.Insert(ctx, dao.MediaFile{
		Key:         file.Key,
		Title:       file.Title,
		Description: file.Description,
		ContentType: file.ContentType,
		SizeBytes:   file.SizeBytes,
	})
	if err != nil {
		return domain.MediaFile{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MediaRepository) FindByID(ctx context.Context, id uint) (domain.MediaFile, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.MediaFile{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MediaRepository) FindAll(ctx context.Context) ([]domain.MediaFile, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	files := make([]domain.MediaFile, len(found))
	for i, f := range found {
		files[i] = r.daoToDomain(f)
	}

	return files, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *MediaRepository) daoToDomain(f dao.MediaFile) domain.MediaFile {
	return domain.MediaFile{
		ID:          f.ID,
		Key:         f.Key,
		Title:       f.Title,
		Description: f.Description,
		ContentType: f.ContentType,
		SizeBytes:   f.SizeBytes,
		CreatedAt:   f.CreatedAt,
	}
}
