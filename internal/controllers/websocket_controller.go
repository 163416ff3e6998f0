package controllers

import (
	"encoding/json"
	"net/http"

	"maintenance-system/internal/board"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	ws "maintenance-system/pkg/websocket"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	messageTypeMoveRequest  = "move_request"
	messageTypeMoveRejected = "move_rejected"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketController struct {
	hub            *ws.Hub
	requestService services.RequestServiceInterface
	logger         *zap.Logger
}

func NewWebSocketController(hub *ws.Hub, requestService services.RequestServiceInterface, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, requestService: requestService, logger: logger}
}

type boardInbound struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type moveRequestPayload struct {
	RequestID uint64 `json:"request_id"`
	Status    string `json:"status"`
}

type moveRejectedPayload struct {
	RequestID uint64 `json:"request_id"`
	Target    string `json:"target"`
	Status    string `json:"status"`
	Message   string `json:"message"`
}

// ServeBoard подключает сессию доски заявок. Каждая сессия получает
// свой координатор поверх снапшота: переносы карточек применяются
// оптимистично, отказ движка откатывает карточку и уходит клиенту
// сообщением move_rejected. Зафиксированные переходы всех сессий
// транслируются через хаб.
func (c *WebSocketController) ServeBoard(ctx echo.Context) error {
	snapshot, err := c.requestService.GetBoard(ctx.Request().Context())
	if err != nil {
		c.logger.Error("ServeBoard: не удалось получить снапшот доски", zap.Error(err))
		return err
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("ServeBoard: не удалось обновить соединение до websocket", zap.Error(err))
		return err
	}

	client := ws.NewClient(c.hub, conn, uuid.NewString())
	coordinator := board.NewCoordinator(c.requestService, snapshot, c.logger)
	coordinator.SetFailureHandler(func(cmd board.MoveCommand, cause error) {
		rolledBack, _ := coordinator.Status(cmd.RequestID)
		_ = client.SendMessage(moveRejectedPayload{
			RequestID: cmd.RequestID,
			Target:    string(cmd.Target),
			Status:    string(rolledBack),
			Message:   "Перенос отклонен: " + cause.Error(),
		}, messageTypeMoveRejected)
	})

	client.OnMessage = func(data []byte) {
		c.handleBoardMessage(client, coordinator, data)
	}
	client.OnClose = func() {
		// Close ждет завершения команд в полете, поэтому уводим его
		// из горутины чтения.
		go coordinator.Close()
	}

	c.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()

	return nil
}

func (c *WebSocketController) handleBoardMessage(client *ws.Client, coordinator *board.Coordinator, data []byte) {
	var inbound boardInbound
	if err := json.Unmarshal(data, &inbound); err != nil {
		c.logger.Warn("доска: нечитаемое сообщение от сессии",
			zap.String("session_id", client.SessionID), zap.Error(err))
		return
	}
	if inbound.Type != messageTypeMoveRequest {
		return
	}

	var move moveRequestPayload
	if err := json.Unmarshal(inbound.Payload, &move); err != nil {
		c.logger.Warn("доска: нечитаемая команда переноса",
			zap.String("session_id", client.SessionID), zap.Error(err))
		return
	}

	status, err := entities.ParseRequestStatus(move.Status)
	if err == nil {
		_, err = coordinator.Move(move.RequestID, status)
	}
	if err != nil {
		_ = client.SendMessage(moveRejectedPayload{
			RequestID: move.RequestID,
			Target:    move.Status,
			Message:   "Перенос отклонен: " + err.Error(),
		}, messageTypeMoveRejected)
	}
}
