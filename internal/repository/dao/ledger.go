package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInsufficientPoints = errors.New("pontos insuficientes")

type PointsBalance struct {
	UserID    uint `gorm:"primaryKey"`
	Points    int  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

// Credit adds points server-side in a single upsert so that concurrent
// sessions cannot lose updates.
func (d *LedgerDAO) Credit(ctx context.Context, userID uint, points int) error {
	return credit(d.db.WithContext(ctx), userID, points)
}

func credit(tx *gorm.DB, userID uint, points int) error {
	balance := PointsBalance{UserID: userID, Points: points}

	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"points":     gorm.Expr("points_balances.points + ?", points),
			"updated_at": time.Now(),
		}),
	}).Create(&balance).Error
}

// Debit subtracts points only when the balance covers them. The conditional
// UPDATE is the whole consistency story: no affected row means the caller
// cannot afford the debit.
func (d *LedgerDAO) Debit(ctx context.Context, userID uint, points int) error {
	return debit(d.db.WithContext(ctx), userID, points)
}

func debit(tx *gorm.DB, userID uint, points int) error {
	result := tx.Model(&PointsBalance{}).
		Where("user_id = ? AND points >= ?", userID, points).
		UpdateColumn("points", gorm.Expr("points - ?", points))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientPoints
	}

	return nil
}

func (d *LedgerDAO) FindByUserID(ctx context.Context, userID uint) (PointsBalance, error) {
	var balance PointsBalance

	result := d.db.WithContext(ctx).First(&balance, "user_id = ?", userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return PointsBalance{UserID: userID}, nil
		}

		return PointsBalance{}, result.Error
	}

	return balance, nil
}

type RankingRow struct {
	UserID uint
	Name   string
	Points int
}

func (d *LedgerDAO) Top(ctx context.Context, limit int) ([]RankingRow, error) {
	var rows []RankingRow

	result := d.db.WithContext(ctx).
		Table("points_balances").
		Select("points_balances.user_id, users.name, points_balances.points").
		Joins("JOIN users ON users.id = points_balances.user_id").
		Where("users.is_active").
		Order("points_balances.points DESC, points_balances.user_id ASC").
		Limit(limit).
		Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}

	return rows, nil
}

func (d *LedgerDAO) RankOf(ctx context.Context, userID uint) (rank int, points int, total int64, err error) {
	balance, err := d.FindByUserID(ctx, userID)
	if err != nil {
		return 0, 0, 0, err
	}

	// Same population as Top: inactive users hold no rank.
	activeBalances := func() *gorm.DB {
		return d.db.WithContext(ctx).
			Table("points_balances").
			Joins("JOIN users ON users.id = points_balances.user_id").
			Where("users.is_active")
	}

	var above int64
	if err = activeBalances().
		Where("points_balances.points > ?", balance.Points).
		Count(&above).Error; err != nil {
		return 0, 0, 0, err
	}

	if err = activeBalances().Count(&total).Error; err != nil {
		return 0, 0, 0, err
	}

	return int(above) + 1, balance.Points, total, nil
}
