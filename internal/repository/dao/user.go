package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserMatriculaExists = errors.New("matricula already registered")
	ErrUserNotFound        = errors.New("user not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Matricula string `gorm:"unique;not null"`
	Password  string `gorm:"not null"`

	Name     string `gorm:"not null"`
	Role     string `gorm:"not null;default:user"` // "admin" or "user"
	IsActive bool   `gorm:"not null;default:true"`

	GroupID *uint `gorm:"index"`
	Group   *Group

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, `unique constraint "uni_users_matricula"`) {
			return User{}, ErrUserMatriculaExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByMatricula(ctx context.Context, matricula string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "matricula = ?", matricula)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindAll(ctx context.Context) ([]User, error) {
	var users []User

	result := d.db.WithContext(ctx).Order("matricula asc").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

func (d *UserDAO) Count(ctx context.Context) (int64, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&User{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return count, nil
}

// isGroupFKViolation detects a group_id pointing at a group that does not
// exist. The users table has no other foreign key.
func isGroupFKViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation
}

func (d *UserDAO) Update(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Model(&User{ID: user.ID}).
		Updates(map[string]interface{}{
			"name":      user.Name,
			"role":      user.Role,
			"is_active": user.IsActive,
			"group_id":  user.GroupID,
		})
	if result.Error != nil {
		if isGroupFKViolation(result.Error) {
			return User{}, ErrGroupNotFound
		}

		return User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return User{}, ErrUserNotFound
	}

	return d.FindByID(ctx, user.ID)
}

func (d *UserDAO) UpdateGroup(ctx context.Context, userID uint, groupID *uint) error {
	result := d.db.WithContext(ctx).Model(&User{ID: userID}).
		Update("group_id", groupID)
	if result.Error != nil {
		if isGroupFKViolation(result.Error) {
			return ErrGroupNotFound
		}

		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
