package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var (
	ErrPostNotFound    = dao.ErrPostNotFound
	ErrCommentNotFound = dao.ErrCommentNotFound
)

type PostDAO interface {
	Insert(ctx context.Context, post dao.Post, groupIDs []uint) (dao.Post, error)
	Update(ctx context.Context, post dao.Post, groupIDs []uint) (dao.Post, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Post, error)
	FindAll(ctx context.Context) ([]dao.Post, error)
	FindPublished(ctx context.Context) ([]dao.Post, error)
	PublishDue(ctx context.Context, now time.Time) ([]dao.Post, error)
	InsertComment(ctx context.Context, comment dao.Comment) (dao.Comment, error)
	FindCommentByID(ctx context.Context, id uint) (dao.Comment, error)
	FindCommentsByPostID(ctx context.Context, postID uint) ([]dao.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	React(ctx context.Context, postID, userID uint, kind string) error
}

type PostRepository struct {
	dao PostDAO
}

func NewPostRepository(dao PostDAO) *PostRepository {
	return &PostRepository{
		dao: dao,
	}
}

func (r *PostRepository) Create(ctx context.Context, post domain.Post) (domain.Post, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(post), post.GroupIDs)
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created, 0), nil
}

func (r *PostRepository) Update(ctx context.Context, post domain.Post) (domain.Post, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(post), post.GroupIDs)
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated, 0), nil
}

func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uint, viewerID uint) (domain.Post, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found, viewerID), nil
}

func (r *PostRepository) FindAll(ctx context.Context) ([]domain.Post, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found, 0), nil
}

func (r *PostRepository) FindPublished(ctx context.Context, viewerID uint) ([]domain.Post, error) {
	found, err := r.dao.FindPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPublished -> %w", err)
	}

	return r.daosToDomain(found, viewerID), nil
}

func (r *PostRepository) PublishDue(ctx context.Context, now time.Time) ([]domain.Post, error) {
	published, err := r.dao.PublishDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("r.dao.PublishDue -> %w", err)
	}

	return r.daosToDomain(published, 0), nil
}

func (r *PostRepository) CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	created, err := r.dao.InsertComment(ctx, dao.Comment{
		PostID: comment.PostID,
		UserID: comment.UserID,
		Body:   comment.Body,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("r.dao.InsertComment -> %w", err)
	}

	return r.commentDaoToDomain(created), nil
}

func (r *PostRepository) FindCommentByID(ctx context.Context, id uint) (domain.Comment, error) {
	found, err := r.dao.FindCommentByID(ctx, id)
	if err != nil {
		return domain.Comment{}, fmt.Errorf("r.dao.FindCommentByID -> %w", err)
	}

	return r.commentDaoToDomain(found), nil
}

func (r *PostRepository) FindCommentsByPostID(ctx context.Context, postID uint) ([]domain.Comment, error) {
	found, err := r.dao.FindCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCommentsByPostID -> %w", err)
	}

	comments := make([]domain.Comment, len(found))
	for i, c := range found {
		comments[i] = r.commentDaoToDomain(c)
	}

	return comments, nil
}

func (r *PostRepository) DeleteComment(ctx context.Context, id uint) error {
	if err := r.dao.DeleteComment(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteComment -> %w", err)
	}

	return nil
}

func (r *PostRepository) React(ctx context.Context, postID, userID uint, kind domain.ReactionKind) error {
	if err := r.dao.React(ctx, postID, userID, string(kind)); err != nil {
		return fmt.Errorf("r.dao.React -> %w", err)
	}

	return nil
}

func (r *PostRepository) domainToDao(p domain.Post) dao.Post {
	return dao.Post{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		ImageKey:  p.ImageKey,
		AuthorID:  p.AuthorID,
		Published: p.Published,
		PublishAt: p.PublishAt,
	}
}

// daoToDomain folds the preloaded comment/reaction rows into counts.
// viewerID selects which reaction becomes MyReaction; zero means no viewer.
func (r *PostRepository) daoToDomain(p dao.Post, viewerID uint) domain.Post {
	groupIDs := make([]uint, len(p.Groups))
	for i, g := range p.Groups {
		groupIDs[i] = g.ID
	}

	post := domain.Post{
		ID:           p.ID,
		Title:        p.Title,
		Body:         p.Body,
		ImageKey:     p.ImageKey,
		AuthorID:     p.AuthorID,
		Published:    p.Published,
		PublishAt:    p.PublishAt,
		GroupIDs:     groupIDs,
		CommentCount: len(p.Comments),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}

	for _, reaction := range p.Reactions {
		switch domain.ReactionKind(reaction.Kind) {
		case domain.ReactionLike:
			post.LikeCount++
		case domain.ReactionDislike:
			post.DislikeCount++
		}
		if viewerID != 0 && reaction.UserID == viewerID {
			post.MyReaction = domain.ReactionKind(reaction.Kind)
		}
	}

	return post
}

func (r *PostRepository) daosToDomain(posts []dao.Post, viewerID uint) []domain.Post {
	result := make([]domain.Post, len(posts))
	for i, p := range posts {
		result[i] = r.daoToDomain(p, viewerID)
	}

	return result
}

func (r *PostRepository) commentDaoToDomain(c dao.Comment) domain.Comment {
	return domain.Comment{
		ID:         c.ID,
		PostID:     c.PostID,
		UserID:     c.UserID,
		AuthorName: c.User.Name,
		Body:       c.Body,
		CreatedAt:  c.CreatedAt,
	}
}
