package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrGroupNotFound = errors.New("group not found")

type Group struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"unique;not null"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type GroupDAO struct {
	db *gorm.DB
}

func NewGroupDAO(db *gorm.DB) *GroupDAO {
	return &GroupDAO{
		db: db,
	}
}

func (d *GroupDAO) Insert(ctx context.Context, group Group) (Group, error) {
	result := d.db.WithContext(ctx).Create(&group)
	if result.Error != nil {
		return Group{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindByID(ctx context.Context, id uint) (Group, error) {
	var group Group

	result := d.db.WithContext(ctx).First(&group, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Group{}, ErrGroupNotFound
		}

		return Group{}, result.Error
	}

	return group, nil
}

func (d *GroupDAO) FindAll(ctx context.Context) ([]Group, error) {
	var groups []Group

	result := d.db.WithContext(ctx).Order("name asc").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

func (d *GroupDAO) Update(ctx context.Context, group Group) (Group, error) {
	result := d.db.WithContext(ctx).Model(&Group{ID: group.ID}).
		Updates(map[string]interface{}{
			"name":        group.Name,
			"description": group.Description,
		})
	if result.Error != nil {
		return Group{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Group{}, ErrGroupNotFound
	}

	return d.FindByID(ctx, group.ID)
}

// Delete removes the group, detaches its members and drops every content
// link that references it. Content left without links becomes public again.
func (d *GroupDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}

		for _, join := range []string{"mission_groups", "prize_groups", "post_groups"} {
			if err := tx.Exec("DELETE FROM "+join+" WHERE group_id = ?", id).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&Group{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}

		return nil
	})
}
