package response

import "github.com/fabrica-tour/api/internal/domain"

type PrizeListResponse struct {
	Prizes   []domain.Prize       `json:"prizes"`
	Redeemed []uint               `json:"redeemed_prize_ids"`
	Balance  domain.PointsBalance `json:"balance"`
}

type RedemptionResponse struct {
	Redemption domain.PrizeRedemption `json:"redemption"`
	Balance    domain.PointsBalance   `json:"balance"`
}
