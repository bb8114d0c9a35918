package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var (
	ErrPostNotFound     = repository.ErrPostNotFound
	ErrCommentNotFound  = repository.ErrCommentNotFound
	ErrPostNotVisible   = errors.New("post is not visible to this user")
	ErrNotCommentAuthor = errors.New("only the author or an admin can delete a comment")
	ErrInvalidReaction  = errors.New("reaction must be like or dislike")
)

// FeedNotifier fans events out to connected realtime clients. Delivery is
// best effort.
type FeedNotifier interface {
	PostPublished(post domain.Post)
	Notify(event, message string)
}

type PostRepository interface {
	Create(ctx context.Context, post domain.Post) (domain.Post, error)
	Update(ctx context.Context, post domain.Post) (domain.Post, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint, viewerID uint) (domain.Post, error)
	FindAll(ctx context.Context) ([]domain.Post, error)
	FindPublished(ctx context.Context, viewerID uint) ([]domain.Post, error)
	PublishDue(ctx context.Context, now time.Time) ([]domain.Post, error)
	CreateComment(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	FindCommentByID(ctx context.Context, id uint) (domain.Comment, error)
	FindCommentsByPostID(ctx context.Context, postID uint) ([]domain.Comment, error)
	DeleteComment(ctx context.Context, id uint) error
	React(ctx context.Context, postID, userID uint, kind domain.ReactionKind) error
}

type PostService struct {
	repo     PostRepository
	notifier FeedNotifier
}

func NewPostService(repo PostRepository, notifier FeedNotifier) *PostService {
	return &PostService{
		repo:     repo,
		notifier: notifier,
	}
}

// CreatePost publishes immediately unless a future publish_at is given.
func (s *PostService) CreatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	post.Published = post.PublishAt == nil || !post.PublishAt.After(time.Now())

	created, err := s.repo.Create(ctx, post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if created.Published && s.notifier != nil {
		s.notifier.PostPublished(created)
	}

	return created, nil
}

// UpdatePost recomputes the published flag from publish_at, so editing a
// live post keeps it on the feed and setting a future publish_at reschedules
// it. A post that goes live through an edit is announced like any other.
func (s *PostService) UpdatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	existing, err := s.repo.FindByID(ctx, post.ID, 0)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	post.Published = post.PublishAt == nil || !post.PublishAt.After(time.Now())

	updated, err := s.repo.Update(ctx, post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if updated.Published && !existing.Published && s.notifier != nil {
		s.notifier.PostPublished(updated)
	}

	return updated, nil
}

func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return posts, nil
}

func (s *PostService) ListForUser(ctx context.Context, user domain.User) ([]domain.Post, error) {
	posts, err := s.repo.FindPublished(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPublished -> %w", err)
	}

	visible := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		if VisibleTo(post.GroupIDs, user.GroupID) {
			visible = append(visible, post)
		}
	}

	return visible, nil
}

// PublishDue is called by the scheduler; it flips due posts live and notifies
// the realtime feed.
func (s *PostService) PublishDue(ctx context.Context, now time.Time) ([]domain.Post, error) {
	published, err := s.repo.PublishDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("s.repo.PublishDue -> %w", err)
	}

	if s.notifier != nil {
		for _, post := range published {
			s.notifier.PostPublished(post)
		}
	}

	return published, nil
}

func (s *PostService) AddComment(ctx context.Context, user domain.User, postID uint, body string) (domain.Comment, error) {
	if _, err := s.visiblePost(ctx, user, postID); err != nil {
		return domain.Comment{}, err
	}

	created, err := s.repo.CreateComment(ctx, domain.Comment{
		PostID: postID,
		UserID: user.ID,
		Body:   body,
	})
	if err != nil {
		return domain.Comment{}, fmt.Errorf("s.repo.CreateComment -> %w", err)
	}

	created.AuthorName = user.Name

	return created, nil
}

func (s *PostService) ListComments(ctx context.Context, user domain.User, postID uint) ([]domain.Comment, error) {
	if _, err := s.visiblePost(ctx, user, postID); err != nil {
		return nil, err
	}

	comments, err := s.repo.FindCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindCommentsByPostID -> %w", err)
	}

	return comments, nil
}

func (s *PostService) DeleteComment(ctx context.Context, user domain.User, commentID uint) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("s.repo.FindCommentByID -> %w", err)
	}

	if comment.UserID != user.ID && !user.IsAdmin() {
		return ErrNotCommentAuthor
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("s.repo.DeleteComment -> %w", err)
	}

	return nil
}

func (s *PostService) React(ctx context.Context, user domain.User, postID uint, kind domain.ReactionKind) error {
	if kind != domain.ReactionLike && kind != domain.ReactionDislike {
		return ErrInvalidReaction
	}

	if _, err := s.visiblePost(ctx, user, postID); err != nil {
		return err
	}

	if err := s.repo.React(ctx, postID, user.ID, kind); err != nil {
		return fmt.Errorf("s.repo.React -> %w", err)
	}

	return nil
}

func (s *PostService) visiblePost(ctx context.Context, user domain.User, postID uint) (domain.Post, error) {
	post, err := s.repo.FindByID(ctx, postID, user.ID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !user.IsAdmin() {
		if !post.Published || !VisibleTo(post.GroupIDs, user.GroupID) {
			return domain.Post{}, ErrPostNotVisible
		}
	}

	return post, nil
}
