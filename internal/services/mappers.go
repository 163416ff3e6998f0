package services

import (
	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
)

const timestampLayout = "2006-01-02, 15:04:05"

func toTeamDTO(team entities.Team) dto.TeamDTO {
	return dto.TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Description: team.Description,
		CreatedAt:   team.CreatedAt.Format(timestampLayout),
		UpdatedAt:   team.UpdatedAt.Format(timestampLayout),
	}
}

func toShortTeamDTO(team *entities.Team) dto.ShortTeamDTO {
	if team == nil {
		return dto.ShortTeamDTO{}
	}
	return dto.ShortTeamDTO{ID: team.ID, Name: team.Name}
}

func toTechnicianDTO(technician entities.Technician) dto.TechnicianDTO {
	return dto.TechnicianDTO{
		ID:        technician.ID,
		Name:      technician.Name,
		Role:      technician.Role,
		Team:      toShortTeamDTO(technician.Team),
		CreatedAt: technician.CreatedAt.Format(timestampLayout),
		UpdatedAt: technician.UpdatedAt.Format(timestampLayout),
	}
}

func toEquipmentDTO(equipment entities.Equipment) dto.EquipmentDTO {
	return dto.EquipmentDTO{
		ID:           equipment.ID,
		Name:         equipment.Name,
		SerialNumber: equipment.SerialNumber,
		Department:   equipment.Department,
		Location:     equipment.Location,
		Status:       string(equipment.Status),
		Team:         toShortTeamDTO(equipment.Team),
		AssignedTo:   equipment.AssignedTo,
		PurchaseDate: equipment.PurchaseDate,
		WarrantyEnd:  equipment.WarrantyEnd,
		CreatedAt:    equipment.CreatedAt.Format(timestampLayout),
		UpdatedAt:    equipment.UpdatedAt.Format(timestampLayout),
	}
}

func toRequestDTO(request entities.Request) dto.RequestDTO {
	result := dto.RequestDTO{
		ID:             request.ID,
		Subject:        request.Subject,
		Description:    request.Description,
		Type:           string(request.Type),
		Priority:       string(request.Priority),
		Status:         string(request.Status),
		Team:           toShortTeamDTO(request.Team),
		ScheduledDate:  request.ScheduledDate,
		EstimatedHours: request.EstimatedHours,
		CreatedAt:      request.CreatedAt.Format(timestampLayout),
	}
	if request.Equipment != nil {
		result.Equipment = dto.ShortEquipmentDTO{ID: request.Equipment.ID, Name: request.Equipment.Name}
	} else {
		result.Equipment = dto.ShortEquipmentDTO{ID: request.EquipmentID}
	}
	if request.Technician != nil {
		result.Technician = &dto.ShortTechnicianDTO{ID: request.Technician.ID, Name: request.Technician.Name}
	}
	return result
}
