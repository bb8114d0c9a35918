package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/fabrica-tour/api/internal/domain"
)

type PostRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ImageKey  string     `json:"image_key"`
	PublishAt *time.Time `json:"publish_at"`
	GroupIDs  []uint     `json:"group_ids"`
}

func (req *PostRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Body, validation.Required),
	)
}

func (req *PostRequest) ToDomain() domain.Post {
	return domain.Post{
		Title:     req.Title,
		Body:      req.Body,
		ImageKey:  req.ImageKey,
		PublishAt: req.PublishAt,
		GroupIDs:  req.GroupIDs,
	}
}

type CommentRequest struct {
	Body string `json:"body"`
}

func (req *CommentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Body, validation.Required, validation.Length(1, 1000)),
	)
}

type ReactionRequest struct {
	Kind string `json:"kind"`
}

func (req *ReactionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Kind, validation.Required, validation.In(
			string(domain.ReactionLike), string(domain.ReactionDislike),
		)),
	)
}
