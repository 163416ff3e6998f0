package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"maintenance-system/internal/listeners"
	"maintenance-system/internal/repositories"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/websocket"
)

func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	hub *websocket.Hub,
	bus *eventbus.Bus,
	logger *zap.Logger,
	cfg *config.Config,
) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	txManager := repositories.NewTxManager(dbConn)

	// --- 1. РЕПОЗИТОРИИ ---
	teamRepo := repositories.NewTeamRepository(dbConn)
	technicianRepo := repositories.NewTechnicianRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	requestRepo := repositories.NewRequestRepository(dbConn, logger)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. СЕРВИСЫ ---
	teamService := services.NewTeamService(teamRepo, logger)
	technicianService := services.NewTechnicianService(technicianRepo, teamRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, teamRepo, logger)
	importService := services.NewEquipmentImportService(equipmentRepo, teamRepo, logger)
	syncService := services.NewEquipmentSyncService(equipmentRepo, logger)
	requestService := services.NewRequestService(
		txManager, requestRepo, equipmentRepo, technicianRepo,
		syncService, cacheRepo, bus, logger, cfg.Cache.BoardSnapshotTTL,
	)

	// --- 3. СЛУШАТЕЛИ ---
	listeners.NewBoardListener(hub, logger).Register(bus)

	// --- 4. РОУТЕРЫ ---
	runTeamRouter(api, teamService, logger)
	runTechnicianRouter(api, technicianService, logger)
	runEquipmentRouter(api, equipmentService, importService, logger)
	runRequestRouter(api, requestService, logger)
	runBoardRouter(e, hub, requestService, logger)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
