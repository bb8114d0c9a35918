package response

import "github.com/fabrica-tour/api/internal/domain"

type MissionListResponse struct {
	Available []domain.Mission `json:"available"`
	Completed []domain.Mission `json:"completed"`
}

type CompletionResponse struct {
	Completion domain.MissionCompletion `json:"completion"`
	Balance    domain.PointsBalance     `json:"balance"`
}

type CompletionListItem struct {
	domain.MissionCompletion
	EvidenceURL string `json:"evidence_url,omitempty"`
}
