package services

import (
	"context"
	"errors"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"

	"go.uber.org/zap"
)

type TechnicianServiceInterface interface {
	GetTechnicians(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]dto.TechnicianDTO, uint64, error)
	CreateTechnician(ctx context.Context, data dto.CreateTechnicianDTO) (*dto.TechnicianDTO, error)
}

type TechnicianService struct {
	technicianRepo repositories.TechnicianRepositoryInterface
	teamRepo       repositories.TeamRepositoryInterface
	logger         *zap.Logger
}

func NewTechnicianService(
	technicianRepo repositories.TechnicianRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) TechnicianServiceInterface {
	return &TechnicianService{
		technicianRepo: technicianRepo,
		teamRepo:       teamRepo,
		logger:         logger,
	}
}

func (s *TechnicianService) GetTechnicians(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]dto.TechnicianDTO, uint64, error) {
	technicians, total, err := s.technicianRepo.GetTechnicians(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.TechnicianDTO, 0, len(technicians))
	for _, t := range technicians {
		result = append(result, toTechnicianDTO(t))
	}
	return result, total, nil
}

// CreateTechnician - техник всегда принадлежит ровно одной команде.
func (s *TechnicianService) CreateTechnician(ctx context.Context, data dto.CreateTechnicianDTO) (*dto.TechnicianDTO, error) {
	if _, err := s.teamRepo.FindTeam(ctx, data.TeamID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}

	newID, err := s.technicianRepo.CreateTechnician(ctx, entities.Technician{
		Name:   data.Name,
		Role:   data.Role,
		TeamID: data.TeamID,
	})
	if err != nil {
		s.logger.Error("ошибка при создании техника", zap.Error(err))
		return nil, err
	}

	created, err := s.technicianRepo.FindTechnician(ctx, newID)
	if err != nil {
		return nil, err
	}
	result := toTechnicianDTO(*created)
	return &result, nil
}
