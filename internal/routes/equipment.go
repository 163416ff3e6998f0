package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEquipmentRouter(
	api *echo.Group,
	equipmentService services.EquipmentServiceInterface,
	importService *services.EquipmentImportService,
	logger *zap.Logger,
) {
	ctrl := controllers.NewEquipmentController(equipmentService, importService, logger)

	api.GET("/equipments", ctrl.GetEquipments)
	api.GET("/equipments/:id", ctrl.FindEquipment)
	api.POST("/equipments", ctrl.CreateEquipment)
	api.POST("/equipments/import", ctrl.ImportEquipments)
}
