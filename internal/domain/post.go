package domain

import "time"

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

type Post struct {
	ID           uint         `json:"id"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	ImageKey     string       `json:"image_key,omitempty"`
	AuthorID     uint         `json:"author_id"`
	Published    bool         `json:"published"`
	PublishAt    *time.Time   `json:"publish_at,omitempty"`
	GroupIDs     []uint       `json:"group_ids,omitempty"`
	CommentCount int          `json:"comment_count"`
	LikeCount    int          `json:"like_count"`
	DislikeCount int          `json:"dislike_count"`
	MyReaction   ReactionKind `json:"my_reaction,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

type Comment struct {
	ID         uint      `json:"id"`
	PostID     uint      `json:"post_id"`
	UserID     uint      `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

type Reaction struct {
	ID        uint         `json:"id"`
	PostID    uint         `json:"post_id"`
	UserID    uint         `json:"user_id"`
	Kind      ReactionKind `json:"kind"`
	CreatedAt time.Time    `json:"created_at"`
}
