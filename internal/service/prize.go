package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var (
	ErrPrizeNotFound        = repository.ErrPrizeNotFound
	ErrPrizeOutOfStock      = repository.ErrPrizeOutOfStock
	ErrPrizeAlreadyRedeemed = repository.ErrPrizeAlreadyRedeemed
	ErrInsufficientPoints   = repository.ErrInsufficientPoints
	ErrPrizeInactive        = errors.New("prize is not active")
	ErrPrizeNotVisible      = errors.New("prize is not visible to this user")
)

type PrizeRepository interface {
	Create(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	Update(ctx context.Context, prize domain.Prize) (domain.Prize, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Prize, error)
	FindAll(ctx context.Context) ([]domain.Prize, error)
	FindActive(ctx context.Context) ([]domain.Prize, error)
	Redeem(ctx context.Context, userID, prizeID uint, cost int) (domain.PrizeRedemption, error)
	FindRedemptionsByUserID(ctx context.Context, userID uint) ([]domain.PrizeRedemption, error)
	FindAllRedemptions(ctx context.Context) ([]domain.PrizeRedemption, error)
}

type PrizeService struct {
	repo     PrizeRepository
	notifier FeedNotifier
}

func NewPrizeService(repo PrizeRepository, notifier FeedNotifier) *PrizeService {
	return &PrizeService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *PrizeService) CreatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	created, err := s.repo.Create(ctx, prize)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *PrizeService) UpdatePrize(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	updated, err := s.repo.Update(ctx, prize)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *PrizeService) DeletePrize(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *PrizeService) ListPrizes(ctx context.Context) ([]domain.Prize, error) {
	prizes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return prizes, nil
}

// ListForUser returns the active, group-visible prizes together with the set
// of prize IDs the user already redeemed.
func (s *PrizeService) ListForUser(ctx context.Context, user domain.User) ([]domain.Prize, map[uint]bool, error) {
	prizes, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	redemptions, err := s.repo.FindRedemptionsByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindRedemptionsByUserID -> %w", err)
	}

	redeemed := make(map[uint]bool, len(redemptions))
	for _, r := range redemptions {
		redeemed[r.PrizeID] = true
	}

	visible := make([]domain.Prize, 0, len(prizes))
	for _, prize := range prizes {
		if VisibleTo(prize.GroupIDs, user.GroupID) {
			visible = append(visible, prize)
		}
	}

	return visible, redeemed, nil
}

// Redeem exchanges points for a prize. Balance check, stock decrement and the
// redemption record are one transaction at the repository layer, so a stale
// client-side balance can never drive the total negative.
func (s *PrizeService) Redeem(ctx context.Context, user domain.User, prizeID uint) (domain.PrizeRedemption, error) {
	prize, err := s.repo.FindByID(ctx, prizeID)
	if err != nil {
		return domain.PrizeRedemption{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !prize.Active {
		return domain.PrizeRedemption{}, ErrPrizeInactive
	}
	if !VisibleTo(prize.GroupIDs, user.GroupID) {
		return domain.PrizeRedemption{}, ErrPrizeNotVisible
	}

	redemption, err := s.repo.Redeem(ctx, user.ID, prize.ID, prize.PointsCost)
	if err != nil {
		return domain.PrizeRedemption{}, fmt.Errorf("s.repo.Redeem -> %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify("prize.redeemed",
			fmt.Sprintf("%s resgatou o prêmio %q", user.Name, prize.Name))
	}

	return redemption, nil
}

func (s *PrizeService) ListRedemptions(ctx context.Context) ([]domain.PrizeRedemption, error) {
	redemptions, err := s.repo.FindAllRedemptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllRedemptions -> %w", err)
	}

	return redemptions, nil
}
