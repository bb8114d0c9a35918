package service

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var ErrProductNotFound = repository.ErrProductNotFound

type ProductRepository interface {
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Product, error)
	FindByQRCode(ctx context.Context, code string) (domain.Product, error)
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindActive(ctx context.Context) ([]domain.Product, error)
}

type ProductService struct {
	repo ProductRepository
}

func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return products, nil
}

func (s *ProductService) ListActive(ctx context.Context) ([]domain.Product, error) {
	products, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return products, nil
}

// Scan resolves a QR code from the factory floor to its product.
func (s *ProductService) Scan(ctx context.Context, code string) (domain.Product, error) {
	product, err := s.repo.FindByQRCode(ctx, code)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.FindByQRCode -> %w", err)
	}

	return product, nil
}
