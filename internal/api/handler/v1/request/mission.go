package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fabrica-tour/api/internal/domain"
)

type MissionOptionRequest struct {
	Label     string `json:"label"`
	IsCorrect bool   `json:"is_correct"`
}

type MissionRequest struct {
	Title            string                 `json:"title"`
	Description      string                 `json:"description"`
	Type             string                 `json:"type"`
	Points           int                    `json:"points"`
	ImageKey         string                 `json:"image_key"`
	EvidenceRequired bool                   `json:"evidence_required"`
	Active           bool                   `json:"active"`
	Options          []MissionOptionRequest `json:"options"`
	GroupIDs         []uint                 `json:"group_ids"`
}

func (req *MissionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 150)),
		validation.Field(&req.Type, validation.Required, validation.In(
			string(domain.MissionQuiz), string(domain.MissionTask), string(domain.MissionActivity),
		)),
		validation.Field(&req.Points, validation.Required, validation.Min(1)),
	)
}

func (req *MissionRequest) ToDomain() domain.Mission {
	options := make([]domain.MissionOption, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, domain.MissionOption{
			Label:     o.Label,
			IsCorrect: o.IsCorrect,
		})
	}

	return domain.Mission{
		Title:            req.Title,
		Description:      req.Description,
		Type:             domain.MissionType(req.Type),
		Points:           req.Points,
		ImageKey:         req.ImageKey,
		EvidenceRequired: req.EvidenceRequired,
		Active:           req.Active,
		Options:          options,
		GroupIDs:         req.GroupIDs,
	}
}

type CompleteMissionRequest struct {
	Answer      string `json:"answer"`
	EvidenceKey string `json:"evidence_key"`
}
