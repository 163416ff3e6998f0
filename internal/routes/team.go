package routes

import (
	"maintenance-system/internal/controllers"
	"maintenance-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runTeamRouter(api *echo.Group, teamService services.TeamServiceInterface, logger *zap.Logger) {
	ctrl := controllers.NewTeamController(teamService, logger)

	api.GET("/teams", ctrl.GetTeams)
	api.GET("/teams/:id", ctrl.FindTeam)
	api.POST("/teams", ctrl.CreateTeam)
}
