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
	ErrMissionNotFound         = errors.New("mission not found")
	ErrMissionAlreadyCompleted = errors.New("mission already completed")
)

type Mission struct {
	ID               uint   `gorm:"primaryKey"`
	Title            string `gorm:"not null"`
	Description      string
	Type             string `gorm:"not null"` // "quiz", "task" or "activity"
	Points           int    `gorm:"not null"`
	ImageKey         string
	EvidenceRequired bool `gorm:"not null;default:false"`
	Active           bool `gorm:"not null;default:true"`

	Options []MissionOption `gorm:"foreignKey:MissionID"`
	Groups  []Group         `gorm:"many2many:mission_groups;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type MissionOption struct {
	ID        uint   `gorm:"primaryKey"`
	MissionID uint   `gorm:"not null;index"`
	Label     string `gorm:"not null"`
	IsCorrect bool   `gorm:"not null;default:false"`
}

type MissionCompletion struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_completions_user_mission"`
	MissionID   uint `gorm:"not null;uniqueIndex:idx_completions_user_mission"`
	Points      int  `gorm:"not null"`
	Answer      string
	EvidenceKey string
	CreatedAt   time.Time
}

type MissionDAO struct {
	db *gorm.DB
}

func NewMissionDAO(db *gorm.DB) *MissionDAO {
	return &MissionDAO{
		db: db,
	}
}

func (d *MissionDAO) Insert(ctx context.Context, mission Mission, groupIDs []uint) (Mission, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Groups").Create(&mission).Error; err != nil {
			return err
		}

		return replaceGroups(tx, &mission, groupIDs)
	})
	if err != nil {
		return Mission{}, err
	}

	return d.FindByID(ctx, mission.ID)
}

func (d *MissionDAO) Update(ctx context.Context, mission Mission, groupIDs []uint) (Mission, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Mission{ID: mission.ID}).
			Updates(map[string]interface{}{
				"title":             mission.Title,
				"description":       mission.Description,
				"type":              mission.Type,
				"points":            mission.Points,
				"image_key":         mission.ImageKey,
				"evidence_required": mission.EvidenceRequired,
				"active":            mission.Active,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMissionNotFound
		}

		if err := tx.Where("mission_id = ?", mission.ID).Delete(&MissionOption{}).Error; err != nil {
			return err
		}
		for i := range mission.Options {
			mission.Options[i].ID = 0
			mission.Options[i].MissionID = mission.ID
		}
		if len(mission.Options) > 0 {
			if err := tx.Create(&mission.Options).Error; err != nil {
				return err
			}
		}

		return replaceGroups(tx, &mission, groupIDs)
	})
	if err != nil {
		return Mission{}, err
	}

	return d.FindByID(ctx, mission.ID)
}

func replaceGroups(tx *gorm.DB, mission *Mission, groupIDs []uint) error {
	groups := make([]Group, len(groupIDs))
	for i, id := range groupIDs {
		groups[i] = Group{ID: id}
	}

	return tx.Model(mission).Association("Groups").Replace(groups)
}

func (d *MissionDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM mission_groups WHERE mission_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("mission_id = ?", id).Delete(&MissionOption{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&Mission{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrMissionNotFound
		}

		return nil
	})
}

func (d *MissionDAO) FindByID(ctx context.Context, id uint) (Mission, error) {
	var mission Mission

	result := d.db.WithContext(ctx).
		Preload("Options").
		Preload("Groups").
		First(&mission, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Mission{}, ErrMissionNotFound
		}

		return Mission{}, result.Error
	}

	return mission, nil
}

func (d *MissionDAO) FindAll(ctx context.Context) ([]Mission, error) {
	var missions []Mission

	result := d.db.WithContext(ctx).
		Preload("Options").
		Preload("Groups").
		Order("id asc").
		Find(&missions)
	if result.Error != nil {
		return nil, result.Error
	}

	return missions, nil
}

func (d *MissionDAO) FindActive(ctx context.Context) ([]Mission, error) {
	var missions []Mission

	result := d.db.WithContext(ctx).
		Preload("Options").
		Preload("Groups").
		Where("active").
		Order("id asc").
		Find(&missions)
	if result.Error != nil {
		return nil, result.Error
	}

	return missions, nil
}

// Complete inserts the completion row and credits the ledger in one
// transaction. The (user_id, mission_id) unique index makes a replayed
// submission fail instead of double-crediting.
func (d *MissionDAO) Complete(ctx context.Context, completion MissionCompletion) (MissionCompletion, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&completion).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "idx_completions_user_mission") {
				return ErrMissionAlreadyCompleted
			}

			return err
		}

		return credit(tx, completion.UserID, completion.Points)
	})
	if err != nil {
		return MissionCompletion{}, err
	}

	return completion, nil
}

func (d *MissionDAO) FindCompletionsByUserID(ctx context.Context, userID uint) ([]MissionCompletion, error) {
	var completions []MissionCompletion

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&completions)
	if result.Error != nil {
		return nil, result.Error
	}

	return completions, nil
}

func (d *MissionDAO) FindAllCompletions(ctx context.Context) ([]MissionCompletion, error) {
	var completions []MissionCompletion

	result := d.db.WithContext(ctx).Order("created_at desc").Find(&completions)
	if result.Error != nil {
		return nil, result.Error
	}

	return completions, nil
}
