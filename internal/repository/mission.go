package repository

import (
	"context"
	"fmt"

	"github.com/fabrica-tour/api/internal/domain"
	"github.com/fabrica-tour/api/internal/repository/dao"
)

var (
	ErrMissionNotFound         = dao.ErrMissionNotFound
	ErrMissionAlreadyCompleted = dao.ErrMissionAlreadyCompleted
)

type MissionDAO interface {
	Insert(ctx context.Context, mission dao.Mission, groupIDs []uint) (dao.Mission, error)
	Update(ctx context.Context, mission dao.Mission, groupIDs []uint) (dao.Mission, error)
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (dao.Mission, error)
	FindAll(ctx context.Context) ([]dao.Mission, error)
	FindActive(ctx context.Context) ([]dao.Mission, error)
	Complete(ctx context.Context, completion dao.MissionCompletion) (dao.MissionCompletion, error)
	FindCompletionsByUserID(ctx context.Context, userID uint) ([]dao.MissionCompletion, error)
	FindAllCompletions(ctx context.Context) ([]dao.MissionCompletion, error)
}

type MissionRepository struct {
	dao MissionDAO
}

func NewMissionRepository(dao MissionDAO) *MissionRepository {
	return &MissionRepository{
		dao: dao,
	}
}

func (r *MissionRepository) Create(ctx context.Context, mission domain.Mission) (domain.Mission, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(mission), mission.GroupIDs)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *MissionRepository) Update(ctx context.Context, mission domain.Mission) (domain.Mission, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(mission), mission.GroupIDs)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *MissionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *MissionRepository) FindByID(ctx context.Context, id uint) (domain.Mission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Mission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *MissionRepository) FindAll(ctx context.Context) ([]domain.Mission, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *MissionRepository) FindActive(ctx context.Context) ([]domain.Mission, error) {
	found, err := r.dao.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *MissionRepository) Complete(ctx context.Context, completion domain.MissionCompletion) (domain.MissionCompletion, error) {
	created, err := r.dao.Complete(ctx, dao.MissionCompletion{
		UserID:      completion.UserID,
		MissionID:   completion.MissionID,
		Points:      completion.Points,
		Answer:      completion.Answer,
		EvidenceKey: completion.EvidenceKey,
	})
	if err != nil {
		return domain.MissionCompletion{}, fmt.Errorf("r.dao.Complete -> %w", err)
	}

	return r.completionDaoToDomain(created), nil
}

func (r *MissionRepository) FindCompletionsByUserID(ctx context.Context, userID uint) ([]domain.MissionCompletion, error) {
	found, err := r.dao.FindCompletionsByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCompletionsByUserID -> %w", err)
	}

	return r.completionsDaoToDomain(found), nil
}

func (r *MissionRepository) FindAllCompletions(ctx context.Context) ([]domain.MissionCompletion, error) {
	found, err := r.dao.FindAllCompletions(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAllCompletions -> %w", err)
	}

	return r.completionsDaoToDomain(found), nil
}

func (r *MissionRepository) domainToDao(m domain.Mission) dao.Mission {
	options := make([]dao.MissionOption, len(m.Options))
	for i, o := range m.Options {
		options[i] = dao.MissionOption{
			ID:        o.ID,
			MissionID: m.ID,
			Label:     o.Label,
			IsCorrect: o.IsCorrect,
		}
	}

	return dao.Mission{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description,
		Type:             string(m.Type),
		Points:           m.Points,
		ImageKey:         m.ImageKey,
		EvidenceRequired: m.EvidenceRequired,
		Active:           m.Active,
		Options:          options,
	}
}

func (r *MissionRepository) daoToDomain(m dao.Mission) domain.Mission {
	options := make([]domain.MissionOption, len(m.Options))
	for i, o := range m.Options {
		options[i] = domain.MissionOption{
			ID:        o.ID,
			Label:     o.Label,
			IsCorrect: o.IsCorrect,
		}
	}

	groupIDs := make([]uint, len(m.Groups))
	for i, g := range m.Groups {
		groupIDs[i] = g.ID
	}

	return domain.Mission{
		ID:               m.ID,
		Title:            m.Title,
		Description:      m.Description,
		Type:             domain.MissionType(m.Type),
		Points:           m.Points,
		ImageKey:         m.ImageKey,
		EvidenceRequired: m.EvidenceRequired,
		Active:           m.Active,
		Options:          options,
		GroupIDs:         groupIDs,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *MissionRepository) daosToDomain(missions []dao.Mission) []domain.Mission {
	result := make([]domain.Mission, len(missions))
	for i, m := range missions {
		result[i] = r.daoToDomain(m)
	}

	return result
}

func (r *MissionRepository) completionDaoToDomain(c dao.MissionCompletion) domain.MissionCompletion {
	return domain.MissionCompletion{
		ID:          c.ID,
		UserID:      c.UserID,
		MissionID:   c.MissionID,
		Points:      c.Points,
		Answer:      c.Answer,
		EvidenceKey: c.EvidenceKey,
		CreatedAt:   c.CreatedAt,
	}
}

func (r *MissionRepository) completionsDaoToDomain(completions []dao.MissionCompletion) []domain.MissionCompletion {
	result := make([]domain.MissionCompletion, len(completions))
	for i, c := range completions {
		result[i] = r.completionDaoToDomain(c)
	}

	return result
}
