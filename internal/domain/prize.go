package domain

import "time"

type Prize struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PointsCost  int       `json:"points_cost"`
	Quantity    int       `json:"quantity"`
	ImageKey    string    `json:"image_key,omitempty"`
	Active      bool      `json:"active"`
	GroupIDs    []uint    `json:"group_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PrizeRedemption struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	PrizeID     uint      `json:"prize_id"`
	PointsSpent int       `json:"points_spent"`
	CreatedAt   time.Time `json:"created_at"`
}
