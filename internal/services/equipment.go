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

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filters map[string]string, search string, limit uint64, offset uint64) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	teamRepo      repositories.TeamRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	teamRepo repositories.TeamRepositoryInterface,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		teamRepo:      teamRepo,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filters map[string]string, search string, limit uint64, offset uint64) ([]dto.EquipmentDTO, uint64, error) {
	equipments, total, err := s.equipmentRepo.GetEquipments(ctx, filters, search, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.EquipmentDTO, 0, len(equipments))
	for _, e := range equipments {
		result = append(result, toEquipmentDTO(e))
	}
	return result, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, nil, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		return nil, err
	}
	result := toEquipmentDTO(*equipment)
	return &result, nil
}

// CreateEquipment - регистрация оборудования. Статус всегда Active:
// в Scrapped его может перевести только автоматика жизненного цикла.
func (s *EquipmentService) CreateEquipment(ctx context.Context, data dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	team, err := s.teamRepo.FindTeam(ctx, data.TeamID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}

	equipment := entities.Equipment{
		Name:         data.Name,
		SerialNumber: data.SerialNumber,
		Department:   data.Department,
		Location:     data.Location,
		TeamID:       team.ID,
		Status:       entities.EquipmentActive,
		AssignedTo:   data.AssignedTo,
		PurchaseDate: data.PurchaseDate,
		WarrantyEnd:  data.WarrantyEnd,
	}

	newID, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		s.logger.Error("ошибка при создании оборудования", zap.Error(err))
		return nil, err
	}

	created, err := s.equipmentRepo.FindEquipment(ctx, nil, newID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("оборудование зарегистрировано",
		zap.Uint64("equipmentId", newID),
		zap.Uint64("teamId", team.ID),
	)

	result := toEquipmentDTO(*created)
	return &result, nil
}
