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
	ErrPrizeNotFound        = errors.New("prize not found")
	ErrPrizeOutOfStock      = errors.New("prize out of stock")
	ErrPrizeAlreadyRedeemed = errors.New("prize already redeemed")
)

type Prize struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Description string
	PointsCost  int `gorm:"not null"`
	Quantity    int `gorm:"not null;default:0"`
	ImageKey    string
	Active      bool `gorm:"not null;default:true"`

	Groups []Group `gorm:"many2many:prize_groups;"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PrizeRedemption struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"not null;uniqueIndex:idx_redemptions_user_prize"`
	PrizeID     uint `gorm:"not null;uniqueIndex:idx_redemptions_user_prize"`
	PointsSpent int  `gorm:"not null"`
	CreatedAt   time.Time
}

type PrizeDAO struct {
	db *gorm.DB
}

func NewPrizeDAO(db *gorm.DB) *PrizeDAO {
	return &PrizeDAO{
		db: db,
	}
}

func (d *PrizeDAO) Insert(ctx context.Context, prize Prize, groupIDs []uint) (Prize, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Groups").Create(&prize).Error; err != nil {
			return err
		}

		return replacePrizeGroups(tx, &prize, groupIDs)
	})
	if err != nil {
		return Prize{}, err
	}

	return d.FindByID(ctx, prize.ID)
}

func (d *PrizeDAO) Update(ctx context.Context, prize Prize, groupIDs []uint) (Prize, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Prize{ID: prize.ID}).
			Updates(map[string]interface{}{
				"name":        prize.Name,
				"description": prize.Description,
				"points_cost": prize.PointsCost,
				"quantity":    prize.Quantity,
				"image_key":   prize.ImageKey,
				"active":      prize.Active,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPrizeNotFound
		}

		return replacePrizeGroups(tx, &prize, groupIDs)
	})
	if err != nil {
		return Prize{}, err
	}

	return d.FindByID(ctx, prize.ID)
}

func replacePrizeGroups(tx *gorm.DB, prize *Prize, groupIDs []uint) error {
	groups := make([]Group, len(groupIDs))
	for i, id := range groupIDs {
		groups[i] = Group{ID: id}
	}

	return tx.Model(prize).Association("Groups").Replace(groups)
}

func (d *PrizeDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM prize_groups WHERE prize_id = ?", id).Error; err != nil {
			return err
		}

		result := tx.Delete(&Prize{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPrizeNotFound
		}

		return nil
	})
}

func (d *PrizeDAO) FindByID(ctx context.Context, id uint) (Prize, error) {
	var prize Prize

	result := d.db.WithContext(ctx).Preload("Groups").First(&prize, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Prize{}, ErrPrizeNotFound
		}

		return Prize{}, result.Error
	}

	return prize, nil
}

func (d *PrizeDAO) FindAll(ctx context.Context) ([]Prize, error) {
	var prizes []Prize

	result := d.db.WithContext(ctx).Preload("Groups").Order("id asc").Find(&prizes)
	if result.Error != nil {
		return nil, result.Error
	}

	return prizes, nil
}

func (d *PrizeDAO) FindActive(ctx context.Context) ([]Prize, error) {
	var prizes []Prize

	result := d.db.WithContext(ctx).Preload("Groups").Where("active").Order("id asc").Find(&prizes)
	if result.Error != nil {
		return nil, result.Error
	}

	return prizes, nil
}

// Redeem debits the ledger, decrements stock and records the redemption in a
// single transaction. Each step is a conditional statement, so two sessions
// racing over the same balance or the last unit cannot both succeed.
func (d *PrizeDAO) Redeem(ctx context.Context, userID, prizeID uint, cost int) (PrizeRedemption, error) {
	redemption := PrizeRedemption{
		UserID:      userID,
		PrizeID:     prizeID,
		PointsSpent: cost,
	}

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&redemption).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) &&
				pgErr.Code == pgerrcode.UniqueViolation &&
				strings.Contains(pgErr.Message, "idx_redemptions_user_prize") {
				return ErrPrizeAlreadyRedeemed
			}

			return err
		}

		result := tx.Model(&Prize{}).
			Where("id = ? AND quantity > 0", prizeID).
			UpdateColumn("quantity", gorm.Expr("quantity - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPrizeOutOfStock
		}

		return debit(tx, userID, cost)
	})
	if err != nil {
		return PrizeRedemption{}, err
	}

	return redemption, nil
}

func (d *PrizeDAO) FindRedemptionsByUserID(ctx context.Context, userID uint) ([]PrizeRedemption, error) {
	var redemptions []PrizeRedemption

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&redemptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return redemptions, nil
}

func (d *PrizeDAO) FindAllRedemptions(ctx context.Context) ([]PrizeRedemption, error) {
	var redemptions []PrizeRedemption

	result := d.db.WithContext(ctx).Order("created_at desc").Find(&redemptions)
	if result.Error != nil {
		return nil, result.Error
	}

	return redemptions, nil
}
