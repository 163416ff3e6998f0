package controllers

import (
	"net/http"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type TechnicianController struct {
	technicianService services.TechnicianServiceInterface
	logger            *zap.Logger
}

func NewTechnicianController(service services.TechnicianServiceInterface, logger *zap.Logger) *TechnicianController {
	return &TechnicianController{
		technicianService: service,
		logger:            logger,
	}
}

func (c *TechnicianController) GetTechnicians(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.technicianService.GetTechnicians(ctx.Request().Context(), params.Filters, params.Limit, params.Offset)
	if err != nil {
		c.logger.Error("GetTechnicians: ошибка при получении списка техников", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Список техников успешно получен", http.StatusOK, total)
}

func (c *TechnicianController) CreateTechnician(ctx echo.Context) error {
	var payload dto.CreateTechnicianDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.technicianService.CreateTechnician(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateTechnician: ошибка при создании техника", zap.Any("payload", payload), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Техник успешно создан", http.StatusCreated)
}
