package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runRequestRouter(api *echo.Group, requestService services.RequestServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewRequestController(requestService, logger)

	api.GET("/requests", ctrl.GetRequests)
	api.GET("/requests/board", ctrl.GetBoard)
	api.GET("/requests/calendar", ctrl.GetCalendar)
	api.GET("/requests/stats", ctrl.GetStats)
	api.GET("/requests/:id", ctrl.FindRequest)
	api.POST("/requests", ctrl.CreateRequest)
	api.POST("/requests/schedule", ctrl.ScheduleRequest)
	api.PUT("/requests/:id/status", ctrl.TransitionStatus)
	api.PUT("/requests/:id/technician", ctrl.AssignTechnician)
}
