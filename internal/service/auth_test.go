package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

type fakeAuthRepo struct {
	users  map[string]domain.User
	nextID uint
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users:  make(map[string]domain.User),
		nextID: 1,
	}
}

func (r *fakeAuthRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := r.users[user.Matricula]; ok {
		return domain.User{}, repository.ErrUserMatriculaExists
	}

	user.ID = r.nextID
	r.nextID++
	r.users[user.Matricula] = user

	return user, nil
}

func (r *fakeAuthRepo) FindByMatricula(_ context.Context, matricula string) (domain.User, error) {
	user, ok := r.users[matricula]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}

	return user, nil
}

func (r *fakeAuthRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return string(hash)
}

func TestAuthService_Signup(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo)

	created, err := svc.Signup(context.Background(), domain.User{
		Matricula: "12345",
		Password:  "secret123",
		Name:      "Maria",
		Role:      domain.RoleAdmin, // must be ignored
	})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEqual(t, "secret123", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("secret123")))
}

func TestAuthService_Login(t *testing.T) {
	t.Run("succeeds with the right password", func(t *testing.T) {
		repo := newFakeAuthRepo()
		repo.users["12345"] = domain.User{
			ID:        1,
			Matricula: "12345",
			Password:  mustHash(t, "secret123"),
			IsActive:  true,
		}
		svc := NewAuthService(repo)

		user, err := svc.Login(context.Background(), "12345", "secret123")

		require.NoError(t, err)
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		repo := newFakeAuthRepo()
		repo.users["12345"] = domain.User{
			Matricula: "12345",
			Password:  mustHash(t, "secret123"),
			IsActive:  true,
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "12345", "wrong")

		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("rejects a deactivated user", func(t *testing.T) {
		repo := newFakeAuthRepo()
		repo.users["12345"] = domain.User{
			Matricula: "12345",
			Password:  mustHash(t, "secret123"),
			IsActive:  false,
		}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "12345", "secret123")

		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("rejects an unknown matricula", func(t *testing.T) {
		repo := newFakeAuthRepo()
		repo.users["99999"] = domain.User{Matricula: "99999"}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "12345", "secret123")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAuthService_BootstrapAdmin(t *testing.T) {
	t.Run("seeds the admin on an empty database", func(t *testing.T) {
		repo := newFakeAuthRepo()
		svc := NewAuthService(repo)

		admin, err := svc.Login(context.Background(), "admin", "123")

		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, admin.Role)
		assert.Equal(t, "admin", admin.Matricula)
		assert.True(t, admin.IsActive)
	})

	t.Run("never seeds once users exist", func(t *testing.T) {
		repo := newFakeAuthRepo()
		repo.users["12345"] = domain.User{Matricula: "12345"}
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "admin", "123")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("never seeds with wrong bootstrap credentials", func(t *testing.T) {
		repo := newFakeAuthRepo()
		svc := NewAuthService(repo)

		_, err := svc.Login(context.Background(), "admin", "wrong")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
