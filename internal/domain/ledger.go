package domain

import "time"

// PointsBalance is the single running total per user. All mutation happens
// through atomic credit/debit statements in the DAO.
type PointsBalance struct {
	UserID    uint      `json:"user_id"`
	Points    int       `json:"points"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RankingEntry struct {
	Rank   int    `json:"rank"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type UserRank struct {
	Rank       int `json:"rank"`
	Points     int `json:"points"`
	TotalUsers int `json:"total_users"`
}
