package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

type fakePrizeRepo struct {
	prizes      map[uint]domain.Prize
	redemptions []domain.PrizeRedemption
	balances    map[uint]int
}

func newFakePrizeRepo(prizes ...domain.Prize) *fakePrizeRepo {
	r := &fakePrizeRepo{
		prizes:   make(map[uint]domain.Prize),
		balances: make(map[uint]int),
	}
	for _, p := range prizes {
		r.prizes[p.ID] = p
	}

	return r
}

func (r *fakePrizeRepo) Create(_ context.Context, prize domain.Prize) (domain.Prize, error) {
	prize.ID = uint(len(r.prizes) + 1)
	r.prizes[prize.ID] = prize

	return prize, nil
}

func (r *fakePrizeRepo) Update(_ context.Context, prize domain.Prize) (domain.Prize, error) {
	if _, ok := r.prizes[prize.ID]; !ok {
		return domain.Prize{}, repository.ErrPrizeNotFound
	}
	r.prizes[prize.ID] = prize

	return prize, nil
}

func (r *fakePrizeRepo) Delete(_ context.Context, id uint) error {
	delete(r.prizes, id)

	return nil
}

func (r *fakePrizeRepo) FindByID(_ context.Context, id uint) (domain.Prize, error) {
	prize, ok := r.prizes[id]
	if !ok {
		return domain.Prize{}, repository.ErrPrizeNotFound
	}

	return prize, nil
}

func (r *fakePrizeRepo) FindAll(_ context.Context) ([]domain.Prize, error) {
	all := make([]domain.Prize, 0, len(r.prizes))
	for _, p := range r.prizes {
		all = append(all, p)
	}

	return all, nil
}

func (r *fakePrizeRepo) FindActive(_ context.Context) ([]domain.Prize, error) {
	active := make([]domain.Prize, 0, len(r.prizes))
	for id := uint(1); id <= uint(len(r.prizes))+10; id++ {
		if p, ok := r.prizes[id]; ok && p.Active {
			active = append(active, p)
		}
	}

	return active, nil
}

// Redeem mirrors the transactional DAO: uniqueness, stock, then balance.
func (r *fakePrizeRepo) Redeem(_ context.Context, userID, prizeID uint, cost int) (domain.PrizeRedemption, error) {
	for _, red := range r.redemptions {
		if red.UserID == userID && red.PrizeID == prizeID {
			return domain.PrizeRedemption{}, repository.ErrPrizeAlreadyRedeemed
		}
	}

	prize := r.prizes[prizeID]
	if prize.Quantity <= 0 {
		return domain.PrizeRedemption{}, repository.ErrPrizeOutOfStock
	}

	if r.balances[userID] < cost {
		return domain.PrizeRedemption{}, repository.ErrInsufficientPoints
	}

	prize.Quantity--
	r.prizes[prizeID] = prize
	r.balances[userID] -= cost

	redemption := domain.PrizeRedemption{
		ID:          uint(len(r.redemptions) + 1),
		UserID:      userID,
		PrizeID:     prizeID,
		PointsSpent: cost,
	}
	r.redemptions = append(r.redemptions, redemption)

	return redemption, nil
}

func (r *fakePrizeRepo) FindRedemptionsByUserID(_ context.Context, userID uint) ([]domain.PrizeRedemption, error) {
	var found []domain.PrizeRedemption
	for _, red := range r.redemptions {
		if red.UserID == userID {
			found = append(found, red)
		}
	}

	return found, nil
}

func (r *fakePrizeRepo) FindAllRedemptions(_ context.Context) ([]domain.PrizeRedemption, error) {
	return r.redemptions, nil
}

func TestPrizeService_ListForUser(t *testing.T) {
	groupA := uint(1)
	user := domain.User{ID: 7, GroupID: &groupA}

	repo := newFakePrizeRepo(
		domain.Prize{ID: 1, Name: "Mug", Active: true, Quantity: 5},
		domain.Prize{ID: 2, Name: "Group shirt", Active: true, Quantity: 3, GroupIDs: []uint{groupA}},
		domain.Prize{ID: 3, Name: "Other group", Active: true, Quantity: 3, GroupIDs: []uint{99}},
		domain.Prize{ID: 4, Name: "Retired", Active: false, Quantity: 1},
	)
	repo.redemptions = []domain.PrizeRedemption{{ID: 1, UserID: 7, PrizeID: 1, PointsSpent: 50}}

	svc := NewPrizeService(repo, nil)

	prizes, redeemed, err := svc.ListForUser(context.Background(), user)
	require.NoError(t, err)

	ids := make([]uint, 0, len(prizes))
	for _, p := range prizes {
		ids = append(ids, p.ID)
	}
	assert.ElementsMatch(t, []uint{1, 2}, ids)
	assert.True(t, redeemed[1])
	assert.False(t, redeemed[2])
}

func TestPrizeService_Redeem(t *testing.T) {
	groupA := uint(1)
	user := domain.User{ID: 7, GroupID: &groupA}

	t.Run("debits and decrements stock", func(t *testing.T) {
		repo := newFakePrizeRepo(domain.Prize{ID: 1, Active: true, Quantity: 2, PointsCost: 50})
		repo.balances[7] = 120
		notifier := &recordingNotifier{}
		svc := NewPrizeService(repo, notifier)

		redemption, err := svc.Redeem(context.Background(), user, 1)

		require.NoError(t, err)
		assert.Equal(t, 50, redemption.PointsSpent)
		assert.Equal(t, 70, repo.balances[7])
		assert.Equal(t, 1, repo.prizes[1].Quantity)
		assert.Equal(t, []string{"prize.redeemed"}, notifier.events)
	})

	t.Run("rejects insufficient points", func(t *testing.T) {
		repo := newFakePrizeRepo(domain.Prize{ID: 1, Active: true, Quantity: 2, PointsCost: 50})
		repo.balances[7] = 10
		svc := NewPrizeService(repo, nil)

		_, err := svc.Redeem(context.Background(), user, 1)

		assert.ErrorIs(t, err, ErrInsufficientPoints)
		assert.Equal(t, 10, repo.balances[7])
		assert.Equal(t, 2, repo.prizes[1].Quantity)
	})

	t.Run("rejects a second redemption of the same prize", func(t *testing.T) {
		repo := newFakePrizeRepo(domain.Prize{ID: 1, Active: true, Quantity: 5, PointsCost: 10})
		repo.balances[7] = 100
		svc := NewPrizeService(repo, nil)

		_, err := svc.Redeem(context.Background(), user, 1)
		require.NoError(t, err)

		_, err = svc.Redeem(context.Background(), user, 1)
		assert.ErrorIs(t, err, ErrPrizeAlreadyRedeemed)
	})

	t.Run("rejects when out of stock", func(t *testing.T) {
		repo := newFakePrizeRepo(domain.Prize{ID: 1, Active: true, Quantity: 0, PointsCost: 10})
		repo.balances[7] = 100
		svc := NewPrizeService(repo, nil)

		_, err := svc.Redeem(context.Background(), user, 1)

		assert.ErrorIs(t, err, ErrPrizeOutOfStock)
	})

	t.Run("rejects an inactive prize", func(t *testing.T) {
		repo := newFakePrizeRepo(domain.Prize{ID: 1, Active: false, Quantity: 5, PointsCost: 10})
		svc := NewPrizeService(repo, nil)

		_, err := svc.Redeem(context.Background(), user, 1)

		assert.ErrorIs(t, err, ErrPrizeInactive)
	})

	t.Run("rejects a prize for another group", func(t *testing.T) {
		repo := newFakePrizeRepo(domain.Prize{ID: 1, Active: true, Quantity: 5, PointsCost: 10, GroupIDs: []uint{99}})
		svc := NewPrizeService(repo, nil)

		_, err := svc.Redeem(context.Background(), user, 1)

		assert.ErrorIs(t, err, ErrPrizeNotVisible)
	})
}
