package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var ErrInsufficientPoints = dao.ErrInsufficientPoints

type LedgerDAO interface {
	Credit(ctx context.Context, userID uint, points int) error
	Debit(ctx context.Context, userID uint, points int) error
	FindByUserID(ctx context.Context, userID uint) (dao.PointsBalance, error)
	Top(ctx context.Context, limit int) ([]dao.RankingRow, error)
	RankOf(ctx context.Context, userID uint) (rank int, points int, total int64, err error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) Credit(ctx context.Context, userID uint, points int) error {
	if err := r.dao.Credit(ctx, userID, points); err != nil {
		return fmt.Errorf("r.dao.Credit -> %w", err)
	}

	return nil
}

func (r *LedgerRepository) Debit(ctx context.Context, userID uint, points int) error {
	if err := r.dao.Debit(ctx, userID, points); err != nil {
		return fmt.Errorf("r.dao.Debit -> %w", err)
	}

	return nil
}

func (r *LedgerRepository) BalanceOf(ctx context.Context, userID uint) (domain.PointsBalance, error) {
	balance, err := r.dao.FindByUserID(ctx, userID)
	if err != nil {
		return domain.PointsBalance{}, fmt.Errorf("r.dao.FindByUserID -> %w", err)
	}

	return domain.PointsBalance{
		UserID:    balance.UserID,
		Points:    balance.Points,
		UpdatedAt: balance.UpdatedAt,
	}, nil
}

func (r *LedgerRepository) Top(ctx context.Context, limit int) ([]domain.RankingEntry, error) {
	rows, err := r.dao.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.Top -> %w", err)
	}

	entries := make([]domain.RankingEntry, len(rows))
	for i, row := range rows {
		entries[i] = domain.RankingEntry{
			Rank:   i + 1,
			UserID: row.UserID,
			Name:   row.Name,
			Points: row.Points,
		}
	}

	return entries, nil
}

func (r *LedgerRepository) RankOf(ctx context.Context, userID uint) (domain.UserRank, error) {
	rank, points, total, err := r.dao.RankOf(ctx, userID)
	if err != nil {
		return domain.UserRank{}, fmt.Errorf("r.dao.RankOf -> %w", err)
	}

	return domain.UserRank{
		Rank:       rank,
		Points:     points,
		TotalUsers: int(total),
	}, nil
}
