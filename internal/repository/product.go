package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var ErrProductNotFound = dao.ErrProductNotFound

type ProductDAO interface {
	Insert(ctx context.Context, product dao.Product) (dao.Product, error)
	Update(ctx context.Context, product dao.Product) (dao.Product, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Product, error)
	FindByQRCode(ctx context.Context, code string) (dao.Product, error)
	FindAll(ctx context.Context) ([]dao.Product, error)
	FindActive(ctx context.Context) ([]dao.Product, error)
}

type ProductRepository struct {
	dao ProductDAO
}

func NewProductRepository(dao ProductDAO) *ProductRepository {
	return &ProductRepository{
		dao: dao,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProductRepository) FindByQRCode(ctx context.Context, code string) (domain.Product, error) {
	found, err := r.dao.FindByQRCode(ctx, code)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindByQRCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ProductRepository) FindActive(ctx context.Context) ([]domain.Product, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ProductRepository) domainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageKey:    p.ImageKey,
		QRCode:      p.QRCode,
		Active:      p.Active,
	}
}

func (r *ProductRepository) daoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageKey:    p.ImageKey,
		QRCode:      p.QRCode,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *ProductRepository) daosToDomain(products []dao.Product) []domain.Product {
	result := make([]domain.Product, len(products))
	for i, p := range products {
		result[i] = r.daoToDomain(p)
	}

	return result
}
