package websocket

import "time"

// Envelope — конверт сообщения: тип подсказывает фронтенду обработчик.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// RequestStatusPayload — зафиксированный переход статуса заявки вместе
// с побочным эффектом по оборудованию (если он был).
type RequestStatusPayload struct {
	RequestID       uint64  `json:"request_id"`
	Status          string  `json:"status"`
	EquipmentID     uint64  `json:"equipment_id"`
	EquipmentStatus *string `json:"equipment_status,omitempty"`
}
