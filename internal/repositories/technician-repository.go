package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	technicianTable  = "technicians"
	technicianFields = "t.id, t.name, t.role, t.team_id, t.created_at, t.updated_at"
)

// allowedTechnicianFilters - белый список для фильтрации
var allowedTechnicianFilters = map[string]string{
	"team_id": "t.team_id",
	"role":    "t.role",
}

type TechnicianRepositoryInterface interface {
	GetTechnicians(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]entities.Technician, uint64, error)
	FindTechnician(ctx context.Context, id uint64) (*entities.Technician, error)
	CreateTechnician(ctx context.Context, technician entities.Technician) (uint64, error)
}

type TechnicianRepository struct {
	storage *pgxpool.Pool
}

func NewTechnicianRepository(storage *pgxpool.Pool) TechnicianRepositoryInterface {
	return &TechnicianRepository{storage: storage}
}

func (r *TechnicianRepository) GetTechnicians(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]entities.Technician, uint64, error) {
	builder := sq.Select(technicianFields + ", tm.id, tm.name").
		From(technicianTable + " t").
		Join("teams tm ON tm.id = t.team_id").
		OrderBy("t.id ASC").
		PlaceholderFormat(sq.Dollar)

	countBuilder := sq.Select("COUNT(*)").
		From(technicianTable + " t").
		PlaceholderFormat(sq.Dollar)

	for key, val := range filters {
		col, ok := allowedTechnicianFilters[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
		countBuilder = countBuilder.Where(sq.Eq{col: val})
	}

	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка запроса списка техников: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyDBError(err)
	}
	defer rows.Close()

	var technicians []entities.Technician
	for rows.Next() {
		var t entities.Technician
		var team entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Role, &t.TeamID, &t.CreatedAt, &t.UpdatedAt, &team.ID, &team.Name); err != nil {
			return nil, 0, err
		}
		t.Team = &team
		technicians = append(technicians, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyDBError(err)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка count-запроса техников: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, classifyDBError(err)
	}

	return technicians, total, nil
}

func (r *TechnicianRepository) FindTechnician(ctx context.Context, id uint64) (*entities.Technician, error) {
	query := fmt.Sprintf(`
		SELECT %s, tm.id, tm.name
		FROM %s t
			JOIN teams tm ON tm.id = t.team_id
		WHERE t.id = $1
	`, technicianFields, technicianTable)

	var t entities.Technician
	var team entities.Team
	err := r.storage.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Role, &t.TeamID, &t.CreatedAt, &t.UpdatedAt,
		&team.ID, &team.Name,
	)
	if err != nil {
		return nil, classifyDBError(err)
	}
	t.Team = &team
	return &t, nil
}

func (r *TechnicianRepository) CreateTechnician(ctx context.Context, technician entities.Technician) (uint64, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (name, role, team_id)
        VALUES ($1, $2, $3)
        RETURNING id
    `, technicianTable)

	var id uint64
	if err := r.storage.QueryRow(ctx, query, technician.Name, technician.Role, technician.TeamID).Scan(&id); err != nil {
		return 0, classifyDBError(err)
	}
	return id, nil
}
