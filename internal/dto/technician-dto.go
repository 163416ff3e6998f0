package dto

type CreateTechnicianDTO struct {
	Name   string `json:"name" validate:"required"`
	Role   string `json:"role" validate:"required"`
	TeamID uint64 `json:"team_id" validate:"required,gt=0"`
}

type UpdateTechnicianDTO struct {
	Name   *string `json:"name,omitempty" validate:"omitempty"`
	Role   *string `json:"role,omitempty" validate:"omitempty"`
	TeamID *uint64 `json:"team_id,omitempty" validate:"omitempty,gt=0"`
}

type TechnicianDTO struct {
	ID        uint64       `json:"id"`
	Name      string       `json:"name"`
	Role      string       `json:"role"`
	Team      ShortTeamDTO `json:"team"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

type ShortTechnicianDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
