package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var ErrGroupNotFound = dao.ErrGroupNotFound

type GroupDAO interface {
	Insert(ctx context.Context, group dao.Group) (dao.Group, error)
	FindByID(ctx context.Context, id uint) (dao.Group, error)
	FindAll(ctx context.Context) ([]dao.Group, error)
	Update(ctx context.Context, group dao.Group) (dao.Group, error)
	Delete(ctx context.Context, id uint) error
}

type GroupRepository struct {
	dao GroupDAO
}

func NewGroupRepository(dao GroupDAO) *GroupRepository {
	return &GroupRepository{
		dao: dao,
	}
}

func (r *GroupRepository) Create(ctx context.Context, group domain.Group) (domain.Group, error) {
	created, err := r.dao.Insert(ctx, dao.Group{
		Name:        group.Name,
		Description: group.Description,
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return groupDaoToDomain(created), nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id uint) (domain.Group, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return groupDaoToDomain(found), nil
}

func (r *GroupRepository) FindAll(ctx context.Context) ([]domain.Group, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	groups := make([]domain.Group, len(found))
	for i, g := range found {
		groups[i] = groupDaoToDomain(g)
	}

	return groups, nil
}

func (r *GroupRepository) Update(ctx context.Context, group domain.Group) (domain.Group, error) {
	updated, err := r.dao.Update(ctx, dao.Group{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
	})
	if err != nil {
		return domain.Group{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return groupDaoToDomain(updated), nil
}

func (r *GroupRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func groupDaoToDomain(g dao.Group) domain.Group {
	return domain.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}
