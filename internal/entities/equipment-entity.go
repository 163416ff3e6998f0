package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Equipment struct {
	ID           uint64          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	SerialNumber string          `db:"serial_number" json:"serial_number"`
	Department   string          `db:"department" json:"department"`
	Location     string          `db:"location" json:"location"`
	TeamID       uint64          `db:"team_id" json:"team_id"`
	Status       EquipmentStatus `db:"status" json:"status"`
	AssignedTo   null.String     `db:"assigned_to" json:"assigned_to,omitempty"`
	PurchaseDate null.Time       `db:"purchase_date" json:"purchase_date,omitempty"`
	WarrantyEnd  null.Time       `db:"warranty_end" json:"warranty_end,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`

	Team *Team `db:"-" json:"-"` // заполняется вручную
}
