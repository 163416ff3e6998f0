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

type TeamServiceInterface interface {
	GetTeams(ctx context.Context, limit uint64, offset uint64) ([]dto.TeamDTO, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	CreateTeam(ctx context.Context, data dto.CreateTeamDTO) (*dto.TeamDTO, error)
}

type TeamService struct {
	teamRepo repositories.TeamRepositoryInterface
	logger   *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, logger *zap.Logger) TeamServiceInterface {
	return &TeamService{teamRepo: teamRepo, logger: logger}
}

func (s *TeamService) GetTeams(ctx context.Context, limit uint64, offset uint64) ([]dto.TeamDTO, uint64, error) {
	teams, total, err := s.teamRepo.GetTeams(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.TeamDTO, 0, len(teams))
	for _, t := range teams {
		result = append(result, toTeamDTO(t))
	}
	return result, total, nil
}

func (s *TeamService) FindTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	team, err := s.teamRepo.FindTeam(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}
	result := toTeamDTO(*team)
	return &result, nil
}

func (s *TeamService) CreateTeam(ctx context.Context, data dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	newID, err := s.teamRepo.CreateTeam(ctx, entities.Team{Name: data.Name, Description: data.Description})
	if err != nil {
		s.logger.Error("ошибка при создании команды", zap.Error(err))
		return nil, err
	}

	created, err := s.teamRepo.FindTeam(ctx, newID)
	if err != nil {
		return nil, err
	}
	result := toTeamDTO(*created)
	return &result, nil
}
