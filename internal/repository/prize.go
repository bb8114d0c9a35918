package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var (
	ErrPrizeNotFound        = dao.ErrPrizeNotFound
	ErrPrizeOutOfStock      = dao.ErrPrizeOutOfStock
	ErrPrizeAlreadyRedeemed = dao.ErrPrizeAlreadyRedeemed
)

type PrizeDAO interface {
	Insert(ctx context.Context, prize dao.Prize, groupIDs []uint) (dao.Prize, error)
	Update(ctx context.Context, prize dao.Prize, groupIDs []uint) (dao.Prize, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Prize, error)
	FindAll(ctx context.Context) ([]dao.Prize, error)
	FindActive(ctx context.Context) ([]dao.Prize, error)
	Redeem(ctx context.Context, userID, prizeID uint, cost int) (dao.PrizeRedemption, error)
	FindRedemptionsByUserID(ctx context.Context, userID uint) ([]dao.PrizeRedemption, error)
	FindAllRedemptions(ctx context.Context) ([]dao.PrizeRedemption, error)
}

type PrizeRepository struct {
	dao PrizeDAO
}

func NewPrizeRepository(dao PrizeDAO) *PrizeRepository {
	return &PrizeRepository{
		dao: dao,
	}
}

func (r *PrizeRepository) Create(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(prize), prize.GroupIDs)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PrizeRepository) Update(ctx context.Context, prize domain.Prize) (domain.Prize, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(prize), prize.GroupIDs)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PrizeRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PrizeRepository) FindByID(ctx context.Context, id uint) (domain.Prize, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Prize{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PrizeRepository) FindAll(ctx context.Context) ([]domain.Prize, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PrizeRepository) FindActive(ctx context.Context) ([]domain.Prize, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *PrizeRepository) Redeem(ctx context.Context, userID, prizeID uint, cost int) (domain.PrizeRedemption, error) {
	redemption, err := r.dao.Redeem(ctx, userID, prizeID, cost)
	if err != nil {
		return domain.PrizeRedemption{}, fmt.Errorf("r.dao.Redeem -> %w", err)
	}

	return r.redemptionDaoToDomain(redemption), nil
}

func (r *PrizeRepository) FindRedemptionsByUserID(ctx context.Context, userID uint) ([]domain.PrizeRedemption, error) {
	found, err := r.dao.FindRedemptionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRedemptionsByUserID -> %w", err)
	}

	return r.redemptionsDaoToDomain(found), nil
}

func (r *PrizeRepository) FindAllRedemptions(ctx context.Context) ([]domain.PrizeRedemption, error) {
	found, err := r.dao.FindAllRedemptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllRedemptions -> %w", err)
	}

	return r.redemptionsDaoToDomain(found), nil
}

func (r *PrizeRepository) domainToDao(p domain.Prize) dao.Prize {
	return dao.Prize{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PointsCost:  p.PointsCost,
		Quantity:    p.Quantity,
		ImageKey:    p.ImageKey,
		Active:      p.Active,
	}
}

func (r *PrizeRepository) daoToDomain(p dao.Prize) domain.Prize {
	groupIDs := make([]uint, len(p.Groups))
	for i, g := range p.Groups {
		groupIDs[i] = g.ID
	}

	return domain.Prize{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PointsCost:  p.PointsCost,
		Quantity:    p.Quantity,
		ImageKey:    p.ImageKey,
		Active:      p.Active,
		GroupIDs:    groupIDs,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *PrizeRepository) daosToDomain(prizes []dao.Prize) []domain.Prize {
	result := make([]domain.Prize, len(prizes))
	for i, p := range prizes {
		result[i] = r.daoToDomain(p)
	}

	return result
}

func (r *PrizeRepository) redemptionDaoToDomain(p dao.PrizeRedemption) domain.PrizeRedemption {
	return domain.PrizeRedemption{
		ID:          p.ID,
		UserID:      p.UserID,
		PrizeID:     p.PrizeID,
		PointsSpent: p.PointsSpent,
		CreatedAt:   p.CreatedAt,
	}
}

func (r *PrizeRepository) redemptionsDaoToDomain(redemptions []dao.PrizeRedemption) []domain.PrizeRedemption {
	result := make([]domain.PrizeRedemption, len(redemptions))
	for i, p := range redemptions {
		result[i] = r.redemptionDaoToDomain(p)
	}

	return result
}
