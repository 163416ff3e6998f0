package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- фейки хранилища ---

// fakeTxManager просто вызывает функцию с nil-транзакцией: фейковые
// репозитории работают в памяти и транзакций не различают.
type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	m.calls++
	return fn(nil)
}

type fakeRequestRepo struct {
	seq         uint64
	requests    map[uint64]*entities.Request
	statusErr   error
	updateCalls int
	listCalls   int
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uint64]*entities.Request)}
}

func (r *fakeRequestRepo) GetRequests(ctx context.Context, filters map[string]string, limit, offset uint64) ([]entities.Request, uint64, error) {
	r.listCalls++
	out := make([]entities.Request, 0, len(r.requests))
	for _, req := range r.requests {
		out = append(out, *req)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeRequestRepo) FindRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (r *fakeRequestRepo) CreateRequest(ctx context.Context, request entities.Request) (uint64, error) {
	r.seq++
	request.ID = r.seq
	request.CreatedAt = time.Now()
	r.requests[request.ID] = &request
	return request.ID, nil
}

func (r *fakeRequestRepo) UpdateRequestStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error {
	r.updateCalls++
	if r.statusErr != nil {
		return r.statusErr
	}
	req, ok := r.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.Status = status
	return nil
}

func (r *fakeRequestRepo) AssignTechnician(ctx context.Context, id uint64, technicianID uint64) error {
	req, ok := r.requests[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.TechnicianID = null.Uint64From(technicianID)
	return nil
}

func (r *fakeRequestRepo) GetScheduledBetween(ctx context.Context, from, to time.Time) ([]entities.Request, error) {
	var out []entities.Request
	for _, req := range r.requests {
		if req.ScheduledDate.Valid && !req.ScheduledDate.Time.Before(from) && req.ScheduledDate.Time.Before(to) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) CountOpen(ctx context.Context) (uint64, error) {
	var n uint64
	for _, req := range r.requests {
		if !req.Status.IsTerminal() {
			n++
		}
	}
	return n, nil
}

type fakeEquipmentRepo struct {
	equipments map[uint64]*entities.Equipment
	syncErr    error
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{equipments: make(map[uint64]*entities.Equipment)}
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, filters map[string]string, search string, limit, offset uint64) ([]entities.Equipment, uint64, error) {
	out := make([]entities.Equipment, 0, len(r.equipments))
	for _, e := range r.equipments {
		out = append(out, *e)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	e, ok := r.equipments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error) {
	id := uint64(len(r.equipments) + 1)
	equipment.ID = id
	r.equipments[id] = &equipment
	return id, nil
}

func (r *fakeEquipmentRepo) UpdateEquipmentStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error {
	if r.syncErr != nil {
		return r.syncErr
	}
	e, ok := r.equipments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.Status = status
	return nil
}

type fakeTechnicianRepo struct {
	technicians map[uint64]*entities.Technician
}

func newFakeTechnicianRepo() *fakeTechnicianRepo {
	return &fakeTechnicianRepo{technicians: make(map[uint64]*entities.Technician)}
}

func (r *fakeTechnicianRepo) GetTechnicians(ctx context.Context, filters map[string]string, limit, offset uint64) ([]entities.Technician, uint64, error) {
	out := make([]entities.Technician, 0, len(r.technicians))
	for _, t := range r.technicians {
		out = append(out, *t)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeTechnicianRepo) FindTechnician(ctx context.Context, id uint64) (*entities.Technician, error) {
	t, ok := r.technicians[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTechnicianRepo) CreateTechnician(ctx context.Context, technician entities.Technician) (uint64, error) {
	id := uint64(len(r.technicians) + 1)
	technician.ID = id
	r.technicians[id] = &technician
	return id, nil
}

type fakeCacheRepo struct {
	store    map[string]string
	delCalls int
	delKeys  []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{store: make(map[string]string)}
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	return r.store[key], nil
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if s, ok := value.(string); ok {
		r.store[key] = s
	}
	return nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, keys ...string) error {
	r.delCalls++
	r.delKeys = append(r.delKeys, keys...)
	for _, key := range keys {
		delete(r.store, key)
	}
	return nil
}

// --- обвязка ---

type requestServiceFixture struct {
	txManager      *fakeTxManager
	requestRepo    *fakeRequestRepo
	equipmentRepo  *fakeEquipmentRepo
	technicianRepo *fakeTechnicianRepo
	cacheRepo      *fakeCacheRepo
	service        RequestServiceInterface
}

func newRequestServiceFixture() *requestServiceFixture {
	f := &requestServiceFixture{
		txManager:      &fakeTxManager{},
		requestRepo:    newFakeRequestRepo(),
		equipmentRepo:  newFakeEquipmentRepo(),
		technicianRepo: newFakeTechnicianRepo(),
		cacheRepo:      newFakeCacheRepo(),
	}
	logger := zap.NewNop()
	syncService := NewEquipmentSyncService(f.equipmentRepo, logger)
	f.service = NewRequestService(
		f.txManager, f.requestRepo, f.equipmentRepo, f.technicianRepo,
		syncService, f.cacheRepo, nil, logger, time.Minute,
	)
	return f
}

func (f *requestServiceFixture) addEquipment(teamID uint64) uint64 {
	id, _ := f.equipmentRepo.CreateEquipment(context.Background(), entities.Equipment{
		Name:         "Станок",
		SerialNumber: "SN-001",
		TeamID:       teamID,
		Status:       entities.EquipmentActive,
	})
	return id
}

func createRequestDTO(equipmentID uint64) dto.CreateRequestDTO {
	return dto.CreateRequestDTO{
		Subject:     "Вибрация шпинделя",
		Type:        string(entities.TypeCorrective),
		Priority:    string(entities.PriorityHigh),
		EquipmentID: equipmentID,
	}
}

// --- тесты создания ---

func TestCreateRequestInheritsTeamFromEquipment(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(5)

	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	assert.Equal(t, string(entities.StatusNew), res.Status)

	stored := f.requestRepo.requests[res.ID]
	require.NotNil(t, stored)
	assert.Equal(t, uint64(5), stored.TeamID, "команда наследуется от оборудования")
	assert.Equal(t, equipmentID, stored.EquipmentID)
	assert.False(t, stored.ScheduledDate.Valid)
}

func TestCreateRequestUnknownEquipment(t *testing.T) {
	f := newRequestServiceFixture()

	_, err := f.service.CreateRequest(context.Background(), createRequestDTO(99))
	assert.ErrorIs(t, err, apperrors.ErrEquipmentNotFound)
}

func TestScheduleRequestCombinesDateAndTime(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)

	res, err := f.service.ScheduleRequest(context.Background(), dto.ScheduleRequestDTO{
		Subject:        "Плановое ТО",
		Type:           string(entities.TypePreventive),
		Priority:       string(entities.PriorityMedium),
		EquipmentID:    equipmentID,
		Date:           "2026-06-10",
		Time:           "09:30",
		EstimatedHours: 2.5,
	})
	require.NoError(t, err)

	stored := f.requestRepo.requests[res.ID]
	require.True(t, stored.ScheduledDate.Valid)
	want := time.Date(2026, 6, 10, 9, 30, 0, 0, time.Local)
	assert.True(t, stored.ScheduledDate.Time.Equal(want), "ожидалось %v, получено %v", want, stored.ScheduledDate.Time)
	assert.Equal(t, 2.5, stored.EstimatedHours.Float64)
}

func TestScheduleRequestRejectsBadDate(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)

	_, err := f.service.ScheduleRequest(context.Background(), dto.ScheduleRequestDTO{
		Subject:        "Плановое ТО",
		Type:           string(entities.TypePreventive),
		Priority:       string(entities.PriorityLow),
		EquipmentID:    equipmentID,
		Date:           "10.06.2026",
		Time:           "09:00",
		EstimatedHours: 1,
	})
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

// --- тесты переходов ---

func TestTransitionToScrapScrapsEquipment(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	updated, err := f.service.TransitionStatus(context.Background(), res.ID, entities.StatusScrap)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusScrap), updated.Status)

	assert.Equal(t, entities.EquipmentScrapped, f.equipmentRepo.equipments[equipmentID].Status)
}

func TestTransitionToRepairedReactivatesEquipment(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	_, err = f.service.TransitionStatus(context.Background(), res.ID, entities.StatusScrap)
	require.NoError(t, err)
	require.Equal(t, entities.EquipmentScrapped, f.equipmentRepo.equipments[equipmentID].Status)

	// Возврат карточки из Scrap в Repaired воскрешает оборудование.
	updated, err := f.service.TransitionStatus(context.Background(), res.ID, entities.StatusRepaired)
	require.NoError(t, err)
	assert.Equal(t, string(entities.StatusRepaired), updated.Status)
	assert.Equal(t, entities.EquipmentActive, f.equipmentRepo.equipments[equipmentID].Status)
}

func TestTransitionToNewAndInProgressLeaveEquipmentAlone(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	for _, target := range []entities.RequestStatus{entities.StatusInProgress, entities.StatusNew} {
		_, err := f.service.TransitionStatus(context.Background(), res.ID, target)
		require.NoError(t, err)
		assert.Equal(t, entities.EquipmentActive, f.equipmentRepo.equipments[equipmentID].Status)
	}
}

func TestTransitionIsIdempotent(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	// Повторная доставка того же перехода: состояние не меняется,
	// ошибки нет.
	for i := 0; i < 2; i++ {
		updated, err := f.service.TransitionStatus(context.Background(), res.ID, entities.StatusScrap)
		require.NoError(t, err)
		assert.Equal(t, string(entities.StatusScrap), updated.Status)
		assert.Equal(t, entities.EquipmentScrapped, f.equipmentRepo.equipments[equipmentID].Status)
	}
}

func TestTransitionUnknownStatusAndRequest(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	_, err = f.service.TransitionStatus(context.Background(), res.ID, entities.RequestStatus("Done"))
	assert.ErrorIs(t, err, apperrors.ErrUnknownRequestStatus)

	_, err = f.service.TransitionStatus(context.Background(), 404, entities.StatusScrap)
	assert.ErrorIs(t, err, apperrors.ErrRequestNotFound)
}

func TestTransitionRunsInSingleTransaction(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	before := f.txManager.calls
	_, err = f.service.TransitionStatus(context.Background(), res.ID, entities.StatusScrap)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.txManager.calls, "запись статуса и побочный эффект идут одной транзакцией")
}

func TestTransitionFailedSideEffectReturnsError(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	f.equipmentRepo.syncErr = apperrors.NewTransientError(errors.New("таймаут соединения"))
	_, err = f.service.TransitionStatus(context.Background(), res.ID, entities.StatusScrap)

	var transient *apperrors.TransientError
	assert.ErrorAs(t, err, &transient)
}

func TestTransitionInvalidatesBoardCache(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	before := f.cacheRepo.delCalls
	_, err = f.service.TransitionStatus(context.Background(), res.ID, entities.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, before+1, f.cacheRepo.delCalls)
	assert.Contains(t, f.cacheRepo.delKeys, boardCacheKey)
}

// --- назначение техника ---

func TestAssignTechnicianFromSameTeam(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(3)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	techID, _ := f.technicianRepo.CreateTechnician(context.Background(), entities.Technician{Name: "Далер", TeamID: 3})

	require.NoError(t, f.service.AssignTechnician(context.Background(), res.ID, techID))
	assert.Equal(t, techID, f.requestRepo.requests[res.ID].TechnicianID.Uint64)
}

func TestAssignTechnicianFromOtherTeamRejected(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(3)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	techID, _ := f.technicianRepo.CreateTechnician(context.Background(), entities.Technician{Name: "Манижа", TeamID: 7})

	err = f.service.AssignTechnician(context.Background(), res.ID, techID)
	var invalid *apperrors.InvalidInputError
	assert.ErrorAs(t, err, &invalid)
}

func TestAssignTechnicianNotFound(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	assert.ErrorIs(t, f.service.AssignTechnician(context.Background(), res.ID, 404), apperrors.ErrTechnicianNotFound)
	assert.ErrorIs(t, f.service.AssignTechnician(context.Background(), 404, 1), apperrors.ErrRequestNotFound)
}

// --- календарь и статистика ---

func TestGetCalendarGroupsByLocalDay(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)

	schedule := func(date, clock string) {
		_, err := f.service.ScheduleRequest(context.Background(), dto.ScheduleRequestDTO{
			Subject:        "ТО",
			Type:           string(entities.TypePreventive),
			Priority:       string(entities.PriorityLow),
			EquipmentID:    equipmentID,
			Date:           date,
			Time:           clock,
			EstimatedHours: 1,
		})
		require.NoError(t, err)
	}
	schedule("2026-06-10", "09:00")
	schedule("2026-06-10", "23:30") // поздний вечер остается в своих сутках
	schedule("2026-06-12", "08:00")

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.Local)
	days, err := f.service.GetCalendar(context.Background(), from, to)
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, "2026-06-10", days[0].Date)
	assert.Len(t, days[0].Requests, 2)
	assert.Equal(t, "2026-06-12", days[1].Date)
	assert.Len(t, days[1].Requests, 1)
}

// --- кеш доски ---

func TestGetBoardCachesSnapshot(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	_, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	first, err := f.service.GetBoard(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	listCalls := f.requestRepo.listCalls

	// Повторный запрос доски обслуживается из кеша, без похода в БД.
	second, err := f.service.GetBoard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, listCalls, f.requestRepo.listCalls)
}

func TestGetBoardRereadsAfterTransition(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)
	res, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	_, err = f.service.GetBoard(context.Background())
	require.NoError(t, err)

	// Переход инвалидирует кеш: следующий снапшот видит новый статус.
	_, err = f.service.TransitionStatus(context.Background(), res.ID, entities.StatusInProgress)
	require.NoError(t, err)

	board, err := f.service.GetBoard(context.Background())
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.Equal(t, string(entities.StatusInProgress), board[0].Status)
}

func TestCountOpenExcludesTerminalStatuses(t *testing.T) {
	f := newRequestServiceFixture()
	equipmentID := f.addEquipment(1)

	first, err := f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)
	_, err = f.service.CreateRequest(context.Background(), createRequestDTO(equipmentID))
	require.NoError(t, err)

	_, err = f.service.TransitionStatus(context.Background(), first.ID, entities.StatusRepaired)
	require.NoError(t, err)

	open, err := f.service.CountOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), open)
}
