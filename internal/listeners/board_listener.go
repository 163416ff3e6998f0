package listeners

import (
	"context"
	"fmt"

	"maintenance-system/internal/services"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/websocket"

	"go.uber.org/zap"
)

const messageTypeRequestStatus = "request_status_changed"

// BoardListener транслирует зафиксированные переходы статусов
// подключенным через websocket клиентам доски.
type BoardListener struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewBoardListener(hub *websocket.Hub, logger *zap.Logger) *BoardListener {
	return &BoardListener{hub: hub, logger: logger}
}

func (l *BoardListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(services.EventRequestStatusChanged, l.handleStatusChanged)
}

func (l *BoardListener) handleStatusChanged(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(services.RequestStatusChangedEvent)
	if !ok {
		return fmt.Errorf("неожиданный тип события: %T", event)
	}

	payload := websocket.RequestStatusPayload{
		RequestID:   e.RequestID,
		Status:      string(e.Status),
		EquipmentID: e.EquipmentID,
	}
	if e.EquipmentStatus != nil {
		status := string(*e.EquipmentStatus)
		payload.EquipmentStatus = &status
	}

	if err := l.hub.BroadcastMessage(payload, messageTypeRequestStatus); err != nil {
		return fmt.Errorf("не удалось разослать сообщение доски: %w", err)
	}

	l.logger.Debug("Переход статуса разослан клиентам доски",
		zap.Uint64("request_id", e.RequestID),
		zap.String("status", string(e.Status)),
	)
	return nil
}
