package dto

import "github.com/aarondl/null/v8"

type CreateRequestDTO struct {
	Subject     string      `json:"subject" validate:"required"`
	Description null.String `json:"description"`
	Type        string      `json:"type" validate:"required,oneof=Preventive Corrective"`
	Priority    string      `json:"priority" validate:"required,oneof=Low Medium High"`
	EquipmentID uint64      `json:"equipment_id" validate:"required,gt=0"`
}

// ScheduleRequestDTO - плановая заявка: дата и время приходят отдельными
// полями формы и склеиваются в одну локальную метку времени.
type ScheduleRequestDTO struct {
	Subject        string      `json:"subject" validate:"required"`
	Description    null.String `json:"description"`
	Type           string      `json:"type" validate:"required,oneof=Preventive Corrective"`
	Priority       string      `json:"priority" validate:"required,oneof=Low Medium High"`
	EquipmentID    uint64      `json:"equipment_id" validate:"required,gt=0"`
	Date           string      `json:"date" validate:"required,datetime=2006-01-02"`
	Time           string      `json:"time" validate:"required,datetime=15:04"`
	EstimatedHours float64     `json:"estimated_hours" validate:"required,gt=0"`
}

type TransitionStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=New 'In Progress' Repaired Scrap"`
}

type AssignTechnicianDTO struct {
	TechnicianID uint64 `json:"technician_id" validate:"required,gt=0"`
}

type RequestDTO struct {
	ID             uint64              `json:"id"`
	Subject        string              `json:"subject"`
	Description    null.String         `json:"description,omitempty"`
	Type           string              `json:"type"`
	Priority       string              `json:"priority"`
	Status         string              `json:"status"`
	Equipment      ShortEquipmentDTO   `json:"equipment"`
	Team           ShortTeamDTO        `json:"team"`
	Technician     *ShortTechnicianDTO `json:"technician,omitempty"`
	ScheduledDate  null.Time           `json:"scheduled_date,omitempty"`
	EstimatedHours null.Float64        `json:"estimated_hours,omitempty"`
	CreatedAt      string              `json:"created_at"`
}

// CalendarDayDTO - заявки одного календарного дня.
type CalendarDayDTO struct {
	Date     string       `json:"date"`
	Requests []RequestDTO `json:"requests"`
}
