package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var (
	ErrUserMatriculaExists = dao.ErrUserMatriculaExists
	ErrUserNotFound        = dao.ErrUserNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByMatricula(ctx context.Context, matricula string) (dao.User, error)
	FindAll(ctx context.Context) ([]dao.User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, user dao.User) (dao.User, error)
	UpdateGroup(ctx context.Context, userID uint, groupID *uint) error
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, dao.User{
		Matricula: user.Matricula,
		Password:  user.Password,
		Name:      user.Name,
		Role:      user.Role,
		IsActive:  user.IsActive,
		GroupID:   user.GroupID,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByMatricula(ctx context.Context, matricula string) (domain.User, error) {
	found, err := r.dao.FindByMatricula(ctx, matricula)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByMatricula -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	users := make([]domain.User, len(found))
	for i, u := range found {
		users[i] = r.daoToDomain(u)
	}

	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.dao.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) (domain.User, error) {
	updated, err := r.dao.Update(ctx, dao.User{
		ID:       user.ID,
		Name:     user.Name,
		Role:     user.Role,
		IsActive: user.IsActive,
		GroupID:  user.GroupID,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *UserRepository) AssignGroup(ctx context.Context, userID uint, groupID *uint) error {
	if err := r.dao.UpdateGroup(ctx, userID, groupID); err != nil {
		return fmt.Errorf("r.dao.UpdateGroup -> %w", err)
	}

	return nil
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Matricula: u.Matricula,
		Password:  u.Password,
		Name:      u.Name,
		Role:      u.Role,
		IsActive:  u.IsActive,
		GroupID:   u.GroupID,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
