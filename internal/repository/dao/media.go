package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrMediaNotFound = errors.New("media file not found")

type MediaFile struct {
	ID          uint   `gorm:"primaryKey"`
	Key         string `gorm:"unique;not null"`
	Title       string `gorm:"not null"`
	Description string
	ContentType string `gorm:"not null"`
	SizeBytes   int64  `gorm:"not null"`
	CreatedAt   time.Time
}

type MediaDAO struct {
	db *gorm.DB
}

func NewMediaDAO(db *gorm.DB) *MediaDAO {
	return &MediaDAO{
		db: db,
	}
}

func (d *MediaDAO) Insert(ctx context.Context, file MediaFile) (MediaFile, error) {
	result := d.db.WithContext(ctx).Create(&file)
	if result.Error != nil {
		return MediaFile{}, result.Error
	}

	return file, nil
}

func (d *MediaDAO) FindByID(ctx context.Context, id uint) (MediaFile, error) {
	var file MediaFile

	result := d.db.WithContext(ctx).First(&file, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return MediaFile{}, ErrMediaNotFound
		}

		return MediaFile{}, result.Error
	}

	return file, nil
}

func (d *MediaDAO) FindAll(ctx context.Context) ([]MediaFile, error) {
	var files []MediaFile

	result := d.db.WithContext(ctx).Order("created_at desc").Find(&files)
	if result.Error != nil {
		return nil, result.Error
	}

	return files, nil
}

func (d *MediaDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&MediaFile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMediaNotFound
	}

	return nil
}
