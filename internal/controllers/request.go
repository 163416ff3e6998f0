package controllers

import (
	"net/http"
	"strconv"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type RequestController struct {
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewRequestController(service services.RequestServiceInterface, logger *zap.Logger) *RequestController {
	return &RequestController{requestService: service, logger: logger}
}

func (c *RequestController) GetRequests(ctx echo.Context) error {
	params := utils.ParseQuery(ctx.Request().URL.Query())

	res, total, err := c.requestService.GetRequests(ctx.Request().Context(), params.Filters, params.Limit, params.Offset)
	if err != nil {
		c.logger.Error("GetRequests: ошибка при получении списка заявок", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Список заявок успешно получен", http.StatusOK, total)
}

// GetBoard отдает снапшот доски: все заявки без пагинации, с кешем.
func (c *RequestController) GetBoard(ctx echo.Context) error {
	res, err := c.requestService.GetBoard(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetBoard: ошибка при получении снапшота доски", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Снапшот доски успешно получен", http.StatusOK)
}

func (c *RequestController) FindRequest(ctx echo.Context) error {
	id, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.requestService.FindRequest(ctx.Request().Context(), id)
	if err != nil {
		c.logger.Error("FindRequest: ошибка при поиске заявки", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Заявка успешно найдена", http.StatusOK)
}

func (c *RequestController) CreateRequest(ctx echo.Context) error {
	var payload dto.CreateRequestDTO
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

	res, err := c.requestService.CreateRequest(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("CreateRequest: ошибка при создании заявки", zap.Any("payload", payload), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Заявка успешно создана", http.StatusCreated)
}

// ScheduleRequest создает плановую заявку с датой и временем проведения работ.
func (c *RequestController) ScheduleRequest(ctx echo.Context) error {
	var payload dto.ScheduleRequestDTO
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

	res, err := c.requestService.ScheduleRequest(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Error("ScheduleRequest: ошибка при планировании заявки", zap.Any("payload", payload), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Заявка успешно запланирована", http.StatusCreated)
}

// TransitionStatus переводит заявку в новый статус. Побочный эффект на
// статус оборудования происходит в той же транзакции.
func (c *RequestController) TransitionStatus(ctx echo.Context) error {
	id, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.TransitionStatusDTO
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

	status, err := entities.ParseRequestStatus(payload.Status)
	if err != nil {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неизвестный статус заявки: "+payload.Status, err, nil),
			c.logger,
		)
	}

	res, err := c.requestService.TransitionStatus(ctx.Request().Context(), id, status)
	if err != nil {
		c.logger.Error("TransitionStatus: ошибка при смене статуса заявки",
			zap.Uint64("id", id), zap.String("status", payload.Status), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Статус заявки успешно обновлен", http.StatusOK)
}

func (c *RequestController) AssignTechnician(ctx echo.Context) error {
	id, err := parseRequestID(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.AssignTechnicianDTO
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

	if err := c.requestService.AssignTechnician(ctx.Request().Context(), id, payload.TechnicianID); err != nil {
		c.logger.Error("AssignTechnician: ошибка при назначении техника",
			zap.Uint64("id", id), zap.Uint64("technician_id", payload.TechnicianID), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, nil, "Техник успешно назначен на заявку", http.StatusOK)
}

// GetCalendar возвращает плановые заявки, сгруппированные по дням.
// Без параметров from/to берется текущий месяц.
func (c *RequestController) GetCalendar(ctx echo.Context) error {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	if raw := ctx.QueryParam("from"); raw != "" {
		parsed, err := time.ParseInLocation(utils.DateLayout, raw, time.Local)
		if err != nil {
			return utils.ErrorResponse(
				ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат даты from, ожидается ГГГГ-ММ-ДД", err, nil),
				c.logger,
			)
		}
		from = parsed
	}
	if raw := ctx.QueryParam("to"); raw != "" {
		parsed, err := time.ParseInLocation(utils.DateLayout, raw, time.Local)
		if err != nil {
			return utils.ErrorResponse(
				ctx,
				apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат даты to, ожидается ГГГГ-ММ-ДД", err, nil),
				c.logger,
			)
		}
		// Дата to задается включительно, сервис работает с полуоткрытым интервалом.
		to = parsed.AddDate(0, 0, 1)
	}

	if to.Before(from) {
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Дата to не может быть раньше from", nil, nil),
			c.logger,
		)
	}

	res, err := c.requestService.GetCalendar(ctx.Request().Context(), from, to)
	if err != nil {
		c.logger.Error("GetCalendar: ошибка при построении календаря", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, res, "Календарь заявок успешно получен", http.StatusOK)
}

func (c *RequestController) GetStats(ctx echo.Context) error {
	open, err := c.requestService.CountOpen(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetStats: ошибка при подсчете открытых заявок", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.SuccessResponse(ctx, map[string]uint64{"open": open}, "Статистика успешно получена", http.StatusOK)
}

func parseRequestID(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID заявки", err,
			map[string]interface{}{"param": ctx.Param("id")})
	}
	return id, nil
}
