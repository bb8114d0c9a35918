package service

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var ErrGroupNotFound = repository.ErrGroupNotFound

type GroupRepository interface {
	Create(ctx context.Context, group domain.Group) (domain.Group, error)
	FindByID(ctx context.Context, id uint) (domain.Group, error)
	FindAll(ctx context.Context) ([]domain.Group, error)
	Update(ctx context.Context, group domain.Group) (domain.Group, error)
	Delete(ctx context.Context, id uint) error
}

type GroupService struct {
	repo GroupRepository
}

func NewGroupService(repo GroupRepository) *GroupService {
	return &GroupService{
		repo: repo,
	}
}

func (s *GroupService) CreateGroup(ctx context.Context, group domain.Group) (domain.Group, error) {
	created, err := s.repo.Create(ctx, group)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *GroupService) GetGroup(ctx context.Context, id uint) (domain.Group, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return group, nil
}

func (s *GroupService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	groups, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return groups, nil
}

func (s *GroupService) UpdateGroup(ctx context.Context, group domain.Group) (domain.Group, error) {
	updated, err := s.repo.Update(ctx, group)
	if err != nil {
		return domain.Group{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *GroupService) DeleteGroup(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
