package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository"
)

var (
	ErrMissionNotFound         = repository.ErrMissionNotFound
	ErrMissionAlreadyCompleted = repository.ErrMissionAlreadyCompleted
	ErrMissionInactive         = errors.New("mission is not active")
	ErrMissionNotVisible       = errors.New("mission is not visible to this user")
	ErrAnswerRequired          = errors.New("an answer is required")
	ErrEvidenceRequired        = errors.New("this mission requires photo evidence")
)

type MissionRepository interface {
	Create(ctx context.Context, mission domain.Mission) (domain.Mission, error)
	Update(ctx context.Context, mission domain.Mission) (domain.Mission, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (domain.Mission, error)
	FindAll(ctx context.Context) ([]domain.Mission, error)
	FindActive(ctx context.Context) ([]domain.Mission, error)
	Complete(ctx context.Context, completion domain.MissionCompletion) (domain.MissionCompletion, error)
	FindCompletionsByUserID(ctx context.Context, userID uint) ([]domain.MissionCompletion, error)
	FindAllCompletions(ctx context.Context) ([]domain.MissionCompletion, error)
}

type MissionService struct {
	repo     MissionRepository
	notifier FeedNotifier
}

func NewMissionService(repo MissionRepository, notifier FeedNotifier) *MissionService {
	return &MissionService{
		repo:     repo,
		notifier: notifier,
	}
}

func (s *MissionService) CreateMission(ctx context.Context, mission domain.Mission) (domain.Mission, error) {
	created, err := s.repo.Create(ctx, mission)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *MissionService) UpdateMission(ctx context.Context, mission domain.Mission) (domain.Mission, error) {
	updated, err := s.repo.Update(ctx, mission)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *MissionService) DeleteMission(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *MissionService) GetMission(ctx context.Context, id uint) (domain.Mission, error) {
	mission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return mission, nil
}

func (s *MissionService) ListMissions(ctx context.Context) ([]domain.Mission, error) {
	missions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return missions, nil
}

// ListForUser splits the user's visible active missions into available and
// completed, by presence of a completion record.
func (s *MissionService) ListForUser(ctx context.Context, user domain.User) (available, completed []domain.Mission, err error) {
	missions, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	completions, err := s.repo.FindCompletionsByUserID(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("s.repo.FindCompletionsByUserID -> %w", err)
	}

	completedIDs := make(map[uint]bool, len(completions))
	for _, c := range completions {
		completedIDs[c.MissionID] = true
	}

	for _, mission := range missions {
		if !VisibleTo(mission.GroupIDs, user.GroupID) {
			continue
		}
		mission.Options = hideCorrectAnswers(mission.Options)
		if completedIDs[mission.ID] {
			completed = append(completed, mission)
		} else {
			available = append(available, mission)
		}
	}

	return available, completed, nil
}

// Complete records a submission and credits its points. Quiz answers are
// accepted as given; the stored correct option is not compared against the
// submission.
func (s *MissionService) Complete(ctx context.Context, user domain.User, missionID uint, answer, evidenceKey string) (domain.MissionCompletion, error) {
	mission, err := s.repo.FindByID(ctx, missionID)
	if err != nil {
		return domain.MissionCompletion{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !mission.Active {
		return domain.MissionCompletion{}, ErrMissionInactive
	}
	if !VisibleTo(mission.GroupIDs, user.GroupID) {
		return domain.MissionCompletion{}, ErrMissionNotVisible
	}
	if strings.TrimSpace(answer) == "" {
		return domain.MissionCompletion{}, ErrAnswerRequired
	}
	if mission.EvidenceRequired && evidenceKey == "" {
		return domain.MissionCompletion{}, ErrEvidenceRequired
	}

	completion, err := s.repo.Complete(ctx, domain.MissionCompletion{
		UserID:      user.ID,
		MissionID:   mission.ID,
		Points:      mission.Points,
		Answer:      answer,
		EvidenceKey: evidenceKey,
	})
	if err != nil {
		return domain.MissionCompletion{}, fmt.Errorf("s.repo.Complete -> %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify("mission.completed",
			fmt.Sprintf("%s completou a missão %q", user.Name, mission.Title))
	}

	return completion, nil
}

func (s *MissionService) ListCompletions(ctx context.Context) ([]domain.MissionCompletion, error) {
	completions, err := s.repo.FindAllCompletions(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAllCompletions -> %w", err)
	}

	return completions, nil
}

func hideCorrectAnswers(options []domain.MissionOption) []domain.MissionOption {
	hidden := make([]domain.MissionOption, len(options))
	for i, o := range options {
		o.IsCorrect = false
		hidden[i] = o
	}

	return hidden
}
