package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fabrica-tour/api/internal/domain"
)

type PrizeRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PointsCost  int    `json:"points_cost"`
	Quantity    int    `json:"quantity"`
	ImageKey    string `json:"image_key"`
	Active      bool   `json:"active"`
	GroupIDs    []uint `json:"group_ids"`
}

func (req *PrizeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.PointsCost, validation.Required, validation.Min(1)),
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

func (req *PrizeRequest) ToDomain() domain.Prize {
	return domain.Prize{
		Name:        req.Name,
		Description: req.Description,
		PointsCost:  req.PointsCost,
		Quantity:    req.Quantity,
		ImageKey:    req.ImageKey,
		Active:      req.Active,
		GroupIDs:    req.GroupIDs,
	}
}
