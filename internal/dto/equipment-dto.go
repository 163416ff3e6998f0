package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name         string      `json:"name" validate:"required"`
	SerialNumber string      `json:"serial_number" validate:"required"`
	Department   string      `json:"department" validate:"required"`
	Location     string      `json:"location" validate:"required"`
	TeamID       uint64      `json:"team_id" validate:"required,gt=0"`
	AssignedTo   null.String `json:"assigned_to"`
	PurchaseDate null.Time   `json:"purchase_date"`
	WarrantyEnd  null.Time   `json:"warranty_end"`
}

type EquipmentDTO struct {
	ID           uint64       `json:"id"`
	Name         string       `json:"name"`
	SerialNumber string       `json:"serial_number"`
	Department   string       `json:"department"`
	Location     string       `json:"location"`
	Status       string       `json:"status"`
	Team         ShortTeamDTO `json:"team"`
	AssignedTo   null.String  `json:"assigned_to,omitempty"`
	PurchaseDate null.Time    `json:"purchase_date,omitempty"`
	WarrantyEnd  null.Time    `json:"warranty_end,omitempty"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
}

type ShortEquipmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type EquipmentImportResultDTO struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
