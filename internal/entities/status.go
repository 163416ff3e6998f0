package entities

import (
	apperrors "maintenance-system/pkg/errors"
)

// RequestStatus - статус заявки на обслуживание. Значения совпадают с
// тем, что хранится в БД и ходит по проводу.
type RequestStatus string

const (
	StatusNew        RequestStatus = "New"
	StatusInProgress RequestStatus = "In Progress"
	StatusRepaired   RequestStatus = "Repaired"
	StatusScrap      RequestStatus = "Scrap"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRepaired, StatusScrap:
		return true
	}
	return false
}

// IsTerminal - семантически конечные статусы. Переходы из них при этом
// разрешены: карточку можно вернуть в работу с доски.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusRepaired || s == StatusScrap
}

// CanTransitionTo - явная политика переходов. Сейчас граф полный:
// любой из четырех статусов достижим из любого другого, отклоняются
// только неизвестные значения. Политика зафиксирована тестами.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	return s.Valid() && target.Valid()
}

func ParseRequestStatus(raw string) (RequestStatus, error) {
	s := RequestStatus(raw)
	if !s.Valid() {
		return "", apperrors.ErrUnknownRequestStatus
	}
	return s, nil
}

// EquipmentStatus - производный статус оборудования. Пишется только при
// регистрации (Active) и синхронизатором оборудования.
type EquipmentStatus string

const (
	EquipmentActive   EquipmentStatus = "Active"
	EquipmentScrapped EquipmentStatus = "Scrapped"
)

func (s EquipmentStatus) Valid() bool {
	return s == EquipmentActive || s == EquipmentScrapped
}

// EquipmentStatusFor возвращает побочный эффект перехода заявки в
// статус status: новый статус оборудования и признак, нужен ли он
// вообще. Правило зависит только от нового статуса, история заявки не
// учитывается.
func EquipmentStatusFor(status RequestStatus) (EquipmentStatus, bool) {
	switch status {
	case StatusScrap:
		return EquipmentScrapped, true
	case StatusRepaired:
		return EquipmentActive, true
	}
	return "", false
}

type RequestType string

const (
	TypePreventive RequestType = "Preventive"
	TypeCorrective RequestType = "Corrective"
)

func (t RequestType) Valid() bool {
	return t == TypePreventive || t == TypeCorrective
}

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
