package service

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
)

const rankingSize = 50

type LedgerRepository interface {
	BalanceOf(ctx context.Context, userID uint) (domain.PointsBalance, error)
	Top(ctx context.Context, limit int) ([]domain.RankingEntry, error)
	RankOf(ctx context.Context, userID uint) (domain.UserRank, error)
}

type PointsService struct {
	repo LedgerRepository
}

func NewPointsService(repo LedgerRepository) *PointsService {
	return &PointsService{
		repo: repo,
	}
}

func (s *PointsService) Balance(ctx context.Context, userID uint) (domain.PointsBalance, error) {
	balance, err := s.repo.BalanceOf(ctx, userID)
	if err != nil {
		return domain.PointsBalance{}, fmt.Errorf("s.repo.BalanceOf -> %w", err)
	}

	return balance, nil
}

func (s *PointsService) Ranking(ctx context.Context) ([]domain.RankingEntry, error) {
	entries, err := s.repo.Top(ctx, rankingSize)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Top -> %w", err)
	}

	return entries, nil
}

func (s *PointsService) MyRank(ctx context.Context, userID uint) (domain.UserRank, error) {
	rank, err := s.repo.RankOf(ctx, userID)
	if err != nil {
		return domain.UserRank{}, fmt.Errorf("s.repo.RankOf -> %w", err)
	}

	return rank, nil
}
