package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// Request - единица работ по обслуживанию: поломка (Corrective) или
// плановое задание (Preventive). Привязана ровно к одному оборудованию
// и одной команде; команда наследуется от оборудования при создании и
// отдельно не меняется.
type Request struct {
	ID             uint64        `db:"id" json:"id"`
	Subject        string        `db:"subject" json:"subject"`
	Description    null.String   `db:"description" json:"description,omitempty"`
	Type           RequestType   `db:"type" json:"type"`
	Priority       Priority      `db:"priority" json:"priority"`
	Status         RequestStatus `db:"status" json:"status"`
	EquipmentID    uint64        `db:"equipment_id" json:"equipment_id"`
	TeamID         uint64        `db:"team_id" json:"team_id"`
	TechnicianID   null.Uint64   `db:"technician_id" json:"technician_id,omitempty"`
	ScheduledDate  null.Time     `db:"scheduled_date" json:"scheduled_date,omitempty"`
	EstimatedHours null.Float64  `db:"estimated_hours" json:"estimated_hours,omitempty"`
	CreatedAt      time.Time     `db:"created_at" json:"created_at"`

	Equipment  *Equipment  `db:"-" json:"-"` // заполняется вручную
	Team       *Team       `db:"-" json:"-"`
	Technician *Technician `db:"-" json:"-"`
}
