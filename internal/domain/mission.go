package domain

import "time"

type MissionType string

const (
	MissionQuiz     MissionType = "quiz"
	MissionTask     MissionType = "task"
	MissionActivity MissionType = "activity"
)

type Mission struct {
	ID               uint            `json:"id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Type             MissionType     `json:"type"`
	Points           int             `json:"points"`
	ImageKey         string          `json:"image_key,omitempty"`
	EvidenceRequired bool            `json:"evidence_required"`
	Active           bool            `json:"active"`
	Options          []MissionOption `json:"options,omitempty"`
	GroupIDs         []uint          `json:"group_ids,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MissionOption is a selectable answer for quiz missions. IsCorrect is kept
// for the admin console; submissions are not graded against it.
type MissionOption struct {
	ID        uint   `json:"id"`
	Label     string `json:"label"`
	IsCorrect bool   `json:"is_correct,omitempty"`
}

type MissionCompletion struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	MissionID   uint      `json:"mission_id"`
	Points      int       `json:"points"`
	Answer      string    `json:"answer"`
	EvidenceKey string    `json:"evidence_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
