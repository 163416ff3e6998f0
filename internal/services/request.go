package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"maintenance-system/internal/board"
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/eventbus"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const boardCacheKey = "board:requests"

// координатор доски отдает команды переноса этому сервису
var _ board.Engine = RequestServiceInterface(nil)

// RequestServiceInterface - движок жизненного цикла заявки: владеет
// машиной статусов и связанной с переходами автоматикой.
type RequestServiceInterface interface {
	GetRequests(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]dto.RequestDTO, uint64, error)
	GetBoard(ctx context.Context) ([]dto.RequestDTO, error)
	FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error)
	CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*dto.RequestDTO, error)
	ScheduleRequest(ctx context.Context, data dto.ScheduleRequestDTO) (*dto.RequestDTO, error)
	TransitionStatus(ctx context.Context, id uint64, newStatus entities.RequestStatus) (*dto.RequestDTO, error)
	AssignTechnician(ctx context.Context, id uint64, technicianID uint64) error
	GetCalendar(ctx context.Context, from time.Time, to time.Time) ([]dto.CalendarDayDTO, error)
	CountOpen(ctx context.Context) (uint64, error)
}

type RequestService struct {
	txManager      repositories.TxManagerInterface
	requestRepo    repositories.RequestRepositoryInterface
	equipmentRepo  repositories.EquipmentRepositoryInterface
	technicianRepo repositories.TechnicianRepositoryInterface
	syncService    EquipmentSyncServiceInterface
	cacheRepo      repositories.CacheRepositoryInterface
	bus            *eventbus.Bus
	logger         *zap.Logger
	boardCacheTTL  time.Duration
}

func NewRequestService(
	txManager repositories.TxManagerInterface,
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	technicianRepo repositories.TechnicianRepositoryInterface,
	syncService EquipmentSyncServiceInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
	boardCacheTTL time.Duration,
) RequestServiceInterface {
	return &RequestService{
		txManager:      txManager,
		requestRepo:    requestRepo,
		equipmentRepo:  equipmentRepo,
		technicianRepo: technicianRepo,
		syncService:    syncService,
		cacheRepo:      cacheRepo,
		bus:            bus,
		logger:         logger,
		boardCacheTTL:  boardCacheTTL,
	}
}

// CreateRequest создает заявку в статусе New. Команда не выбирается
// пользователем: она всегда наследуется от оборудования.
func (s *RequestService) CreateRequest(ctx context.Context, data dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	return s.create(ctx, data.Subject, data.Description, data.Type, data.Priority, data.EquipmentID, null.Time{}, null.Float64{})
}

// ScheduleRequest - плановая заявка: дата и время склеиваются в одну
// локальную метку, дополнительно сохраняется оценка трудоемкости.
func (s *RequestService) ScheduleRequest(ctx context.Context, data dto.ScheduleRequestDTO) (*dto.RequestDTO, error) {
	scheduledAt, err := utils.CombineDateTime(data.Date, data.Time)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("не удалось разобрать дату планирования: %v", err)
	}
	return s.create(ctx, data.Subject, data.Description, data.Type, data.Priority, data.EquipmentID,
		null.TimeFrom(scheduledAt), null.Float64From(data.EstimatedHours))
}

func (s *RequestService) create(
	ctx context.Context,
	subject string,
	description null.String,
	reqType string,
	priority string,
	equipmentID uint64,
	scheduledDate null.Time,
	estimatedHours null.Float64,
) (*dto.RequestDTO, error) {
	equipment, err := s.equipmentRepo.FindEquipment(ctx, nil, equipmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrEquipmentNotFound
		}
		s.logger.Error("ошибка поиска оборудования для заявки", zap.Uint64("equipmentId", equipmentID), zap.Error(err))
		return nil, err
	}

	request := entities.Request{
		Subject:        subject,
		Description:    description,
		Type:           entities.RequestType(reqType),
		Priority:       entities.Priority(priority),
		Status:         entities.StatusNew,
		EquipmentID:    equipment.ID,
		TeamID:         equipment.TeamID, // авто-назначение команды
		ScheduledDate:  scheduledDate,
		EstimatedHours: estimatedHours,
	}

	newID, err := s.requestRepo.CreateRequest(ctx, request)
	if err != nil {
		s.logger.Error("ошибка при создании заявки", zap.Error(err))
		return nil, err
	}
	s.invalidateBoardCache(ctx)

	created, err := s.requestRepo.FindRequest(ctx, nil, newID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("заявка создана",
		zap.Uint64("requestId", newID),
		zap.Uint64("equipmentId", equipment.ID),
		zap.Uint64("teamId", equipment.TeamID),
	)

	result := toRequestDTO(*created)
	return &result, nil
}

// TransitionStatus - ядро движка. Запись нового статуса заявки и
// побочный эффект по оборудованию выполняются в одной транзакции:
// читатель никогда не увидит заявку Scrap при оборудовании Active.
// Повторная доставка того же перехода безопасна - перезапись
// безусловна, наблюдаемое состояние не меняется.
func (s *RequestService) TransitionStatus(ctx context.Context, id uint64, newStatus entities.RequestStatus) (*dto.RequestDTO, error) {
	if !newStatus.Valid() {
		return nil, apperrors.ErrUnknownRequestStatus
	}

	var request *entities.Request
	var sideEffect *entities.EquipmentStatus

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		var err error
		request, err = s.requestRepo.FindRequest(ctx, tx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.ErrRequestNotFound
			}
			return err
		}

		if !request.Status.CanTransitionTo(newStatus) {
			return apperrors.NewInvalidInputError("переход %s -> %s запрещен", request.Status, newStatus)
		}

		if err := s.requestRepo.UpdateRequestStatus(ctx, tx, id, newStatus); err != nil {
			return err
		}
		request.Status = newStatus

		// Автоматика зависит только от нового статуса, история
		// переходов не учитывается.
		if equipmentStatus, ok := entities.EquipmentStatusFor(newStatus); ok {
			if err := s.syncService.SetEquipmentStatus(ctx, tx, request.EquipmentID, equipmentStatus); err != nil {
				return err
			}
			sideEffect = &equipmentStatus
		}
		return nil
	})
	if err != nil {
		s.logger.Error("переход статуса не зафиксирован",
			zap.Uint64("requestId", id),
			zap.String("newStatus", string(newStatus)),
			zap.Error(err),
		)
		return nil, err
	}

	s.invalidateBoardCache(ctx)

	if s.bus != nil {
		s.bus.Publish(ctx, RequestStatusChangedEvent{
			RequestID:       id,
			Status:          newStatus,
			EquipmentID:     request.EquipmentID,
			EquipmentStatus: sideEffect,
		})
	}

	s.logger.Info("переход статуса зафиксирован",
		zap.Uint64("requestId", id),
		zap.String("status", string(newStatus)),
	)

	result := toRequestDTO(*request)
	return &result, nil
}

func (s *RequestService) AssignTechnician(ctx context.Context, id uint64, technicianID uint64) error {
	request, err := s.requestRepo.FindRequest(ctx, nil, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return err
	}

	technician, err := s.technicianRepo.FindTechnician(ctx, technicianID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrTechnicianNotFound
		}
		return err
	}
	if technician.TeamID != request.TeamID {
		return apperrors.NewInvalidInputError("техник из другой команды не может быть назначен на заявку")
	}

	if err := s.requestRepo.AssignTechnician(ctx, id, technicianID); err != nil {
		return err
	}
	s.invalidateBoardCache(ctx)
	return nil
}

func (s *RequestService) GetRequests(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]dto.RequestDTO, uint64, error) {
	requests, total, err := s.requestRepo.GetRequests(ctx, filters, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.RequestDTO, 0, len(requests))
	for _, req := range requests {
		result = append(result, toRequestDTO(req))
	}
	return result, total, nil
}

// GetBoard - снапшот всех заявок для канбан-доски, без фильтров и
// пагинации. Снапшот кешируется в redis и инвалидируется любой записью;
// протухший кеш добирает TTL.
func (s *RequestService) GetBoard(ctx context.Context) ([]dto.RequestDTO, error) {
	if s.cacheRepo != nil {
		if raw, err := s.cacheRepo.Get(ctx, boardCacheKey); err == nil && raw != "" {
			var cached []dto.RequestDTO
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return cached, nil
			}
			s.logger.Warn("кеш доски поврежден, перечитываю из БД")
		}
	}

	requests, _, err := s.requestRepo.GetRequests(ctx, nil, 0, 0)
	if err != nil {
		return nil, err
	}
	board := make([]dto.RequestDTO, 0, len(requests))
	for _, req := range requests {
		board = append(board, toRequestDTO(req))
	}

	if s.cacheRepo != nil {
		if raw, err := json.Marshal(board); err == nil {
			if err := s.cacheRepo.Set(ctx, boardCacheKey, string(raw), s.boardCacheTTL); err != nil {
				s.logger.Warn("не удалось записать кеш доски", zap.Error(err))
			}
		}
	}
	return board, nil
}

func (s *RequestService) FindRequest(ctx context.Context, id uint64) (*dto.RequestDTO, error) {
	request, err := s.requestRepo.FindRequest(ctx, nil, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, err
	}
	result := toRequestDTO(*request)
	return &result, nil
}

// GetCalendar раскладывает запланированные заявки интервала [from; to)
// по локальным календарным дням. Заявки без scheduled_date не попадают
// ни в один день.
func (s *RequestService) GetCalendar(ctx context.Context, from time.Time, to time.Time) ([]dto.CalendarDayDTO, error) {
	requests, err := s.requestRepo.GetScheduledBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]dto.RequestDTO)
	for _, req := range requests {
		if !req.ScheduledDate.Valid {
			continue
		}
		day := req.ScheduledDate.Time.Format(utils.DateLayout)
		byDay[day] = append(byDay[day], toRequestDTO(req))
	}

	days := make([]dto.CalendarDayDTO, 0, len(byDay))
	for cursor := from; cursor.Before(to); cursor = cursor.AddDate(0, 0, 1) {
		key := cursor.Format(utils.DateLayout)
		if list, ok := byDay[key]; ok {
			days = append(days, dto.CalendarDayDTO{Date: key, Requests: list})
		}
	}
	return days, nil
}

func (s *RequestService) CountOpen(ctx context.Context) (uint64, error) {
	return s.requestRepo.CountOpen(ctx)
}

func (s *RequestService) invalidateBoardCache(ctx context.Context) {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Del(ctx, boardCacheKey); err != nil {
		// кеш не критичен, просроченный снапшот доберет TTL
		s.logger.Warn("не удалось инвалидировать кеш доски", zap.Error(err))
	}
}
