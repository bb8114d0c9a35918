package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var (
	ErrUserMatriculaExists = repository.ErrUserMatriculaExists
	ErrUserNotFound        = repository.ErrUserNotFound
	ErrWrongPassword       = errors.New("wrong password")
	ErrUserInactive        = errors.New("user is inactive")
)

const (
	bootstrapMatricula = "admin"
	bootstrapPassword  = "123"
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByMatricula(ctx context.Context, matricula string) (domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type AuthService struct {
	repo AuthUserRepository
}

func NewAuthService(repo AuthUserRepository) *AuthService {
	return &AuthService{
		repo: repo,
	}
}

// Signup registers a visitor by matricula. Self-registered accounts are
// always plain users; admins are promoted through the user console.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)
	user.Role = domain.RoleUser
	user.IsActive = true

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, matricula, password string) (domain.User, error) {
	user, err := s.repo.FindByMatricula(ctx, matricula)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return s.bootstrapAdmin(ctx, matricula, password)
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByMatricula -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	if !user.IsActive {
		return domain.User{}, ErrUserInactive
	}

	return user, nil
}

// bootstrapAdmin seeds the very first account: on an empty database, logging
// in as admin/123 creates the admin user and lets them in.
func (s *AuthService) bootstrapAdmin(ctx context.Context, matricula, password string) (domain.User, error) {
	if matricula != bootstrapMatricula || password != bootstrapPassword {
		return domain.User{}, ErrUserNotFound
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Count -> %w", err)
	}
	if count > 0 {
		return domain.User{}, ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	created, err := s.repo.Create(ctx, domain.User{
		Matricula: bootstrapMatricula,
		Password:  string(hash),
		Name:      "Administrador",
		Role:      domain.RoleAdmin,
		IsActive:  true,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}
