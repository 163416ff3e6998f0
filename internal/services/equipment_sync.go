package services

import (
	"context"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// EquipmentSyncServiceInterface - единственный писатель производного
// статуса оборудования. Регистрация задает Active, дальше статус меняет
// только этот сервис по правилам автоматики жизненного цикла заявки.
type EquipmentSyncServiceInterface interface {
	SetEquipmentStatus(ctx context.Context, tx pgx.Tx, equipmentID uint64, status entities.EquipmentStatus) error
}

type EquipmentSyncService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	logger        *zap.Logger
}

func NewEquipmentSyncService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	logger *zap.Logger,
) EquipmentSyncServiceInterface {
	return &EquipmentSyncService{
		equipmentRepo: equipmentRepo,
		logger:        logger,
	}
}

// SetEquipmentStatus - безусловная перезапись (last-writer-wins, без
// сверки с другими заявками на то же оборудование).
func (s *EquipmentSyncService) SetEquipmentStatus(ctx context.Context, tx pgx.Tx, equipmentID uint64, status entities.EquipmentStatus) error {
	if !status.Valid() {
		return apperrors.NewInvalidInputError("недопустимый статус оборудования: %s", status)
	}

	if err := s.equipmentRepo.UpdateEquipmentStatus(ctx, tx, equipmentID, status); err != nil {
		s.logger.Error("не удалось обновить статус оборудования",
			zap.Uint64("equipmentId", equipmentID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("статус оборудования обновлен",
		zap.Uint64("equipmentId", equipmentID),
		zap.String("status", string(status)),
	)
	return nil
}
