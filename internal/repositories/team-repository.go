package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	teamTable  = "teams"
	teamFields = "id, name, description, created_at, updated_at"
)

type TeamRepositoryInterface interface {
	GetTeams(ctx context.Context, limit uint64, offset uint64) ([]entities.Team, uint64, error)
	FindTeam(ctx context.Context, id uint64) (*entities.Team, error)
	CreateTeam(ctx context.Context, team entities.Team) (uint64, error)
	UpdateTeam(ctx context.Context, id uint64, team entities.Team) error
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func (r *TeamRepository) scanRow(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, classifyDBError(err)
	}
	return &t, nil
}

func (r *TeamRepository) GetTeams(ctx context.Context, limit uint64, offset uint64) ([]entities.Team, uint64, error) {
	builder := sq.Select(teamFields).
		From(teamTable).
		OrderBy("id ASC").
		PlaceholderFormat(sq.Dollar)
	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка запроса списка команд: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyDBError(err)
	}
	defer rows.Close()

	var teams []entities.Team
	for rows.Next() {
		var t entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, 0, err
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyDBError(err)
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", teamTable)).Scan(&total); err != nil {
		return nil, 0, classifyDBError(err)
	}

	return teams, total, nil
}

func (r *TeamRepository) FindTeam(ctx context.Context, id uint64) (*entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", teamFields, teamTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, id))
}

func (r *TeamRepository) CreateTeam(ctx context.Context, team entities.Team) (uint64, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (name, description)
        VALUES ($1, $2)
        RETURNING id
    `, teamTable)

	var id uint64
	if err := r.storage.QueryRow(ctx, query, team.Name, team.Description).Scan(&id); err != nil {
		return 0, classifyDBError(err)
	}
	return id, nil
}

func (r *TeamRepository) UpdateTeam(ctx context.Context, id uint64, team entities.Team) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET name = $1, description = $2, updated_at = CURRENT_TIMESTAMP
        WHERE id = $3
    `, teamTable)

	result, err := r.storage.Exec(ctx, query, team.Name, team.Description, id)
	if err != nil {
		return classifyDBError(err)
	}
	if result.RowsAffected() == 0 {
		return classifyDBError(pgx.ErrNoRows)
	}
	return nil
}
