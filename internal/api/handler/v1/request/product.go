package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fabrica-tour/api/internal/domain"
)

type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageKey    string `json:"image_key"`
	QRCode      string `json:"qr_code"`
	Active      bool   `json:"active"`
}

func (req *ProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.QRCode, validation.Required, validation.Length(1, 100)),
	)
}

func (req *ProductRequest) ToDomain() domain.Product {
	return domain.Product{
		Name:        req.Name,
		Description: req.Description,
		ImageKey:    req.ImageKey,
		QRCode:      req.QRCode,
		Active:      req.Active,
	}
}
