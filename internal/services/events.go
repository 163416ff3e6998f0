package services

import "maintenance-system/internal/entities"

const EventRequestStatusChanged = "request.status.changed"

// RequestStatusChangedEvent публикуется после коммита перехода статуса.
// EquipmentStatus заполнен, только если переход повлек побочный эффект
// по оборудованию.
type RequestStatusChangedEvent struct {
	RequestID       uint64
	Status          entities.RequestStatus
	EquipmentID     uint64
	EquipmentStatus *entities.EquipmentStatus
}

func (e RequestStatusChangedEvent) Name() string { return EventRequestStatusChanged }
