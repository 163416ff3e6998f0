package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/websocket"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runBoardRouter(e *echo.Echo, hub *websocket.Hub, requestService services.RequestServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewWebSocketController(hub, requestService, logger)

	e.GET("/ws/board", ctrl.ServeBoard)
}
