package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	ImageKey    string
	QRCode      string `gorm:"uniqueIndex;not null"`
	Active      bool   `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProductDAO struct {
	db *gorm.DB
}

func NewProductDAO(db *gorm.DB) *ProductDAO {
	return &ProductDAO{
		db: db,
	}
}

func (d *ProductDAO) Insert(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) Update(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Model(&Product{ID: product.ID}).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"image_key":   product.ImageKey,
			"qr_code":     product.QRCode,
			"active":      product.Active,
		})
	if result.Error != nil {
		return Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Product{}, ErrProductNotFound
	}

	return d.FindByID(ctx, product.ID)
}

func (d *ProductDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

func (d *ProductDAO) FindByID(ctx context.Context, id uint) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindByQRCode(ctx context.Context, code string) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, "qr_code = ? AND active", code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *ProductDAO) FindAll(ctx context.Context) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).Order("name asc").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *ProductDAO) FindActive(ctx context.Context) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).Where("active").Order("name asc").Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}
