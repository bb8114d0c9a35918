package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

type fakeMissionRepo struct {
	missions    map[uint]domain.Mission
	completions []domain.MissionCompletion
}

func newFakeMissionRepo(missions ...domain.Mission) *fakeMissionRepo {
	r := &fakeMissionRepo{missions: make(map[uint]domain.Mission)}
	for _, m := range missions {
		r.missions[m.ID] = m
	}

	return r
}

func (r *fakeMissionRepo) Create(_ context.Context, mission domain.Mission) (domain.Mission, error) {
	mission.ID = uint(len(r.missions) + 1)
	r.missions[mission.ID] = mission

	return mission, nil
}

func (r *fakeMissionRepo) Update(_ context.Context, mission domain.Mission) (domain.Mission, error) {
	if _, ok := r.missions[mission.ID]; !ok {
		return domain.Mission{}, repository.ErrMissionNotFound
	}
	r.missions[mission.ID] = mission

	return mission, nil
}

func (r *fakeMissionRepo) Delete(_ context.Context, id uint) error {
	delete(r.missions, id)

	return nil
}

func (r *fakeMissionRepo) FindByID(_ context.Context, id uint) (domain.Mission, error) {
	mission, ok := r.missions[id]
	if !ok {
		return domain.Mission{}, repository.ErrMissionNotFound
	}

	return mission, nil
}

func (r *fakeMissionRepo) FindAll(_ context.Context) ([]domain.Mission, error) {
	all := make([]domain.Mission, 0, len(r.missions))
	for _, m := range r.missions {
		all = append(all, m)
	}

	return all, nil
}

func (r *fakeMissionRepo) FindActive(_ context.Context) ([]domain.Mission, error) {
	active := make([]domain.Mission, 0, len(r.missions))
	for id := uint(1); id <= uint(len(r.missions))+10; id++ {
		if m, ok := r.missions[id]; ok && m.Active {
			active = append(active, m)
		}
	}

	return active, nil
}

func (r *fakeMissionRepo) Complete(_ context.Context, completion domain.MissionCompletion) (domain.MissionCompletion, error) {
	for _, c := range r.completions {
		if c.UserID == completion.UserID && c.MissionID == completion.MissionID {
			return domain.MissionCompletion{}, repository.ErrMissionAlreadyCompleted
		}
	}

	completion.ID = uint(len(r.completions) + 1)
	r.completions = append(r.completions, completion)

	return completion, nil
}

func (r *fakeMissionRepo) FindCompletionsByUserID(_ context.Context, userID uint) ([]domain.MissionCompletion, error) {
	var found []domain.MissionCompletion
	for _, c := range r.completions {
		if c.UserID == userID {
			found = append(found, c)
		}
	}

	return found, nil
}

func (r *fakeMissionRepo) FindAllCompletions(_ context.Context) ([]domain.MissionCompletion, error) {
	return r.completions, nil
}

func TestMissionService_ListForUser(t *testing.T) {
	groupA := uint(1)
	user := domain.User{ID: 7, GroupID: &groupA}

	repo := newFakeMissionRepo(
		domain.Mission{ID: 1, Title: "Public quiz", Type: domain.MissionQuiz, Active: true,
			Options: []domain.MissionOption{{ID: 1, Label: "A", IsCorrect: true}, {ID: 2, Label: "B"}}},
		domain.Mission{ID: 2, Title: "Group mission", Active: true, GroupIDs: []uint{groupA}},
		domain.Mission{ID: 3, Title: "Other group", Active: true, GroupIDs: []uint{99}},
		domain.Mission{ID: 4, Title: "Inactive", Active: false},
		domain.Mission{ID: 5, Title: "Done already", Active: true},
	)
	repo.completions = []domain.MissionCompletion{{ID: 1, UserID: 7, MissionID: 5, Points: 10}}

	svc := NewMissionService(repo, nil)

	available, completed, err := svc.ListForUser(context.Background(), user)
	require.NoError(t, err)

	availableIDs := make([]uint, 0, len(available))
	for _, m := range available {
		availableIDs = append(availableIDs, m.ID)
	}
	assert.ElementsMatch(t, []uint{1, 2}, availableIDs)

	require.Len(t, completed, 1)
	assert.Equal(t, uint(5), completed[0].ID)

	// Quiz options must never leak the correct flag.
	for _, m := range available {
		for _, o := range m.Options {
			assert.False(t, o.IsCorrect)
		}
	}
}

func TestMissionService_Complete(t *testing.T) {
	groupA := uint(1)
	groupB := uint(2)
	user := domain.User{ID: 7, GroupID: &groupA}

	t.Run("awards points once", func(t *testing.T) {
		repo := newFakeMissionRepo(domain.Mission{ID: 1, Active: true, Points: 25})
		notifier := &recordingNotifier{}
		svc := NewMissionService(repo, notifier)

		completion, err := svc.Complete(context.Background(), user, 1, "some answer", "")
		require.NoError(t, err)
		assert.Equal(t, 25, completion.Points)
		assert.Equal(t, uint(7), completion.UserID)
		assert.Equal(t, []string{"mission.completed"}, notifier.events)

		_, err = svc.Complete(context.Background(), user, 1, "again", "")
		assert.ErrorIs(t, err, ErrMissionAlreadyCompleted)
		assert.Len(t, notifier.events, 1)
	})

	t.Run("quiz answers are accepted as given", func(t *testing.T) {
		repo := newFakeMissionRepo(domain.Mission{
			ID: 1, Type: domain.MissionQuiz, Active: true, Points: 10,
			Options: []domain.MissionOption{{ID: 1, Label: "Right", IsCorrect: true}, {ID: 2, Label: "Wrong"}},
		})
		svc := NewMissionService(repo, nil)

		completion, err := svc.Complete(context.Background(), user, 1, "Wrong", "")

		require.NoError(t, err)
		assert.Equal(t, 10, completion.Points)
	})

	t.Run("rejects an inactive mission", func(t *testing.T) {
		repo := newFakeMissionRepo(domain.Mission{ID: 1, Active: false})
		svc := NewMissionService(repo, nil)

		_, err := svc.Complete(context.Background(), user, 1, "answer", "")

		assert.ErrorIs(t, err, ErrMissionInactive)
	})

	t.Run("rejects a mission for another group", func(t *testing.T) {
		repo := newFakeMissionRepo(domain.Mission{ID: 1, Active: true, GroupIDs: []uint{groupB}})
		svc := NewMissionService(repo, nil)

		_, err := svc.Complete(context.Background(), user, 1, "answer", "")

		assert.ErrorIs(t, err, ErrMissionNotVisible)
	})

	t.Run("rejects a blank answer", func(t *testing.T) {
		repo := newFakeMissionRepo(domain.Mission{ID: 1, Active: true})
		svc := NewMissionService(repo, nil)

		_, err := svc.Complete(context.Background(), user, 1, "   ", "")

		assert.ErrorIs(t, err, ErrAnswerRequired)
	})

	t.Run("requires evidence when the mission demands it", func(t *testing.T) {
		repo := newFakeMissionRepo(domain.Mission{ID: 1, Active: true, EvidenceRequired: true})
		svc := NewMissionService(repo, nil)

		_, err := svc.Complete(context.Background(), user, 1, "answer", "")
		assert.ErrorIs(t, err, ErrEvidenceRequired)

		completion, err := svc.Complete(context.Background(), user, 1, "answer", "evidence/key.jpg")
		require.NoError(t, err)
		assert.Equal(t, "evidence/key.jpg", completion.EvidenceKey)
	})

	t.Run("unknown mission", func(t *testing.T) {
		repo := newFakeMissionRepo()
		svc := NewMissionService(repo, nil)

		_, err := svc.Complete(context.Background(), user, 42, "answer", "")

		assert.ErrorIs(t, err, ErrMissionNotFound)
	})
}
