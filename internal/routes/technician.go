package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runTechnicianRouter(api *echo.Group, technicianService services.TechnicianServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewTechnicianController(technicianService, logger)

	api.GET("/technicians", ctrl.GetTechnicians)
	api.POST("/technicians", ctrl.CreateTechnician)
}
