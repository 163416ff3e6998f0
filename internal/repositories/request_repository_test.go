package repositories

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД, если она указана через
// TEST_DATABASE_URL. Без нее интеграционные тесты пропускаются -
// схема должна быть применена заранее командой migrate up.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl != "" {
		var err error
		testPool, err = pgxpool.New(context.Background(), testDbUrl)
		if err != nil {
			log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
		}
		defer testPool.Close()
	}

	os.Exit(m.Run())
}

func requireTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
	return testPool
}

// cleanupTables очищает таблицы для обеспечения изоляции тестов.
func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `TRUNCATE TABLE requests, equipments, technicians, teams RESTART IDENTITY CASCADE;`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

// seedBase создает команду и оборудование, необходимые для заявок.
func seedBase(t *testing.T, pool *pgxpool.Pool) (teamID, equipmentID uint64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx,
		`INSERT INTO teams (name, description) VALUES ('Механики', 'тест') RETURNING id`,
	).Scan(&teamID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx,
		`INSERT INTO equipments (name, serial_number, team_id, status)
         VALUES ('Станок', 'SN-TEST-001', $1, 'Active') RETURNING id`,
		teamID,
	).Scan(&equipmentID)
	require.NoError(t, err)
	return teamID, equipmentID
}

func TestCreateAndFindRequest(t *testing.T) {
	pool := requireTestDB(t)
	cleanupTables(t, pool)
	teamID, equipmentID := seedBase(t, pool)

	repo := NewRequestRepository(pool, zap.NewNop())

	id, err := repo.CreateRequest(context.Background(), entities.Request{
		Subject:     "Вибрация шпинделя",
		Type:        entities.TypeCorrective,
		Priority:    entities.PriorityHigh,
		Status:      entities.StatusNew,
		EquipmentID: equipmentID,
		TeamID:      teamID,
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	found, err := repo.FindRequest(context.Background(), nil, id)
	require.NoError(t, err)
	assert.Equal(t, "Вибрация шпинделя", found.Subject)
	assert.Equal(t, entities.StatusNew, found.Status)
	assert.Equal(t, teamID, found.TeamID)
	require.NotNil(t, found.Equipment)
	assert.Equal(t, "Станок", found.Equipment.Name)
	require.NotNil(t, found.Team)
	assert.Equal(t, "Механики", found.Team.Name)
}

func TestFindRequestNotFound(t *testing.T) {
	pool := requireTestDB(t)
	cleanupTables(t, pool)

	repo := NewRequestRepository(pool, zap.NewNop())
	_, err := repo.FindRequest(context.Background(), nil, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateRequestStatusInTransaction(t *testing.T) {
	pool := requireTestDB(t)
	cleanupTables(t, pool)
	teamID, equipmentID := seedBase(t, pool)

	repo := NewRequestRepository(pool, zap.NewNop())
	equipmentRepo := NewEquipmentRepository(pool, zap.NewNop())

	id, err := repo.CreateRequest(context.Background(), entities.Request{
		Subject:     "Списание",
		Type:        entities.TypeCorrective,
		Priority:    entities.PriorityLow,
		Status:      entities.StatusNew,
		EquipmentID: equipmentID,
		TeamID:      teamID,
	})
	require.NoError(t, err)

	txManager := NewTxManager(pool)
	err = txManager.RunInTransaction(context.Background(), func(tx pgx.Tx) error {
		if err := repo.UpdateRequestStatus(context.Background(), tx, id, entities.StatusScrap); err != nil {
			return err
		}
		return equipmentRepo.UpdateEquipmentStatus(context.Background(), tx, equipmentID, entities.EquipmentScrapped)
	})
	require.NoError(t, err)

	found, err := repo.FindRequest(context.Background(), nil, id)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusScrap, found.Status)

	equipment, err := equipmentRepo.FindEquipment(context.Background(), nil, equipmentID)
	require.NoError(t, err)
	assert.Equal(t, entities.EquipmentScrapped, equipment.Status)
}

func TestGetScheduledBetween(t *testing.T) {
	pool := requireTestDB(t)
	cleanupTables(t, pool)
	teamID, equipmentID := seedBase(t, pool)

	repo := NewRequestRepository(pool, zap.NewNop())

	inRange := time.Date(2026, 6, 10, 9, 0, 0, 0, time.Local)
	outOfRange := time.Date(2026, 7, 2, 9, 0, 0, 0, time.Local)

	for _, scheduled := range []time.Time{inRange, outOfRange} {
		_, err := repo.CreateRequest(context.Background(), entities.Request{
			Subject:       "ТО",
			Type:          entities.TypePreventive,
			Priority:      entities.PriorityMedium,
			Status:        entities.StatusNew,
			EquipmentID:   equipmentID,
			TeamID:        teamID,
			ScheduledDate: null.TimeFrom(scheduled),
		})
		require.NoError(t, err)
	}

	from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.Local)
	to := time.Date(2026, 7, 1, 0, 0, 0, 0, time.Local)
	list, err := repo.GetScheduledBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].ScheduledDate.Time.Equal(inRange))
}

func TestCountOpen(t *testing.T) {
	pool := requireTestDB(t)
	cleanupTables(t, pool)
	teamID, equipmentID := seedBase(t, pool)

	repo := NewRequestRepository(pool, zap.NewNop())

	statuses := []entities.RequestStatus{
		entities.StatusNew, entities.StatusInProgress, entities.StatusRepaired, entities.StatusScrap,
	}
	for _, status := range statuses {
		_, err := repo.CreateRequest(context.Background(), entities.Request{
			Subject:     "Заявка " + string(status),
			Type:        entities.TypeCorrective,
			Priority:    entities.PriorityLow,
			Status:      status,
			EquipmentID: equipmentID,
			TeamID:      teamID,
		})
		require.NoError(t, err)
	}

	open, err := repo.CountOpen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(2), open, "Repaired и Scrap не считаются открытыми")
}
