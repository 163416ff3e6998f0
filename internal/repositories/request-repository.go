package repositories

import (
	"context"
	"fmt"
	"time"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	requestTable  = "requests"
	requestFields = "r.id, r.subject, r.description, r.type, r.priority, r.status, r.equipment_id, r.team_id, r.technician_id, r.scheduled_date, r.estimated_hours, r.created_at"
)

// allowedRequestFilters - белый список для фильтрации
var allowedRequestFilters = map[string]string{
	"status":       "r.status",
	"type":         "r.type",
	"priority":     "r.priority",
	"team_id":      "r.team_id",
	"equipment_id": "r.equipment_id",
}

type RequestRepositoryInterface interface {
	GetRequests(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]entities.Request, uint64, error)
	FindRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error)
	CreateRequest(ctx context.Context, request entities.Request) (uint64, error)
	UpdateRequestStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error
	AssignTechnician(ctx context.Context, id uint64, technicianID uint64) error
	GetScheduledBetween(ctx context.Context, from time.Time, to time.Time) ([]entities.Request, error)
	CountOpen(ctx context.Context) (uint64, error)
}

type RequestRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewRequestRepository(storage *pgxpool.Pool, logger *zap.Logger) RequestRepositoryInterface {
	return &RequestRepository{storage: storage, logger: logger}
}

// getQuerier - возвращает транзакцию или пул соединений
func (r *RequestRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *RequestRepository) selectBuilder() sq.SelectBuilder {
	return sq.Select(requestFields + ", e.id, e.name, tm.id, tm.name, tech.name").
		From(requestTable + " r").
		Join("equipments e ON e.id = r.equipment_id").
		Join("teams tm ON tm.id = r.team_id").
		LeftJoin("technicians tech ON tech.id = r.technician_id").
		PlaceholderFormat(sq.Dollar)
}

func (r *RequestRepository) scanInto(row pgx.Row) (*entities.Request, error) {
	var req entities.Request
	var equipment entities.Equipment
	var team entities.Team
	var technicianName null.String

	err := row.Scan(
		&req.ID, &req.Subject, &req.Description, &req.Type, &req.Priority, &req.Status,
		&req.EquipmentID, &req.TeamID, &req.TechnicianID, &req.ScheduledDate, &req.EstimatedHours,
		&req.CreatedAt,
		&equipment.ID, &equipment.Name,
		&team.ID, &team.Name,
		&technicianName,
	)
	if err != nil {
		return nil, classifyDBError(err)
	}
	req.Equipment = &equipment
	req.Team = &team
	attachTechnician(&req, technicianName)
	return &req, nil
}

func attachTechnician(req *entities.Request, name null.String) {
	if req.TechnicianID.Valid && name.Valid {
		req.Technician = &entities.Technician{
			ID:     req.TechnicianID.Uint64,
			Name:   name.String,
			TeamID: req.TeamID,
		}
	}
}

func (r *RequestRepository) GetRequests(ctx context.Context, filters map[string]string, limit uint64, offset uint64) ([]entities.Request, uint64, error) {
	builder := r.selectBuilder().OrderBy("r.created_at DESC")

	countBuilder := sq.Select("COUNT(*)").
		From(requestTable + " r").
		PlaceholderFormat(sq.Dollar)

	for key, val := range filters {
		col, ok := allowedRequestFilters[key]
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
		return nil, 0, fmt.Errorf("сборка запроса списка заявок: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyDBError(err)
	}
	defer rows.Close()

	requests, err := r.collectRows(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка count-запроса заявок: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, classifyDBError(err)
	}

	return requests, total, nil
}

func (r *RequestRepository) collectRows(rows pgx.Rows) ([]entities.Request, error) {
	var requests []entities.Request
	for rows.Next() {
		var req entities.Request
		var equipment entities.Equipment
		var team entities.Team
		var technicianName null.String
		if err := rows.Scan(
			&req.ID, &req.Subject, &req.Description, &req.Type, &req.Priority, &req.Status,
			&req.EquipmentID, &req.TeamID, &req.TechnicianID, &req.ScheduledDate, &req.EstimatedHours,
			&req.CreatedAt,
			&equipment.ID, &equipment.Name,
			&team.ID, &team.Name,
			&technicianName,
		); err != nil {
			return nil, err
		}
		req.Equipment = &equipment
		req.Team = &team
		attachTechnician(&req, technicianName)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyDBError(err)
	}
	return requests, nil
}

func (r *RequestRepository) FindRequest(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Request, error) {
	query, args, err := r.selectBuilder().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("сборка запроса поиска заявки: %w", err)
	}
	return r.scanInto(r.getQuerier(tx).QueryRow(ctx, query, args...))
}

func (r *RequestRepository) CreateRequest(ctx context.Context, request entities.Request) (uint64, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (subject, description, type, priority, status, equipment_id, team_id, scheduled_date, estimated_hours)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, requestTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		request.Subject,
		request.Description,
		request.Type,
		request.Priority,
		request.Status,
		request.EquipmentID,
		request.TeamID,
		request.ScheduledDate,
		request.EstimatedHours,
	).Scan(&id)
	if err != nil {
		return 0, classifyDBError(err)
	}
	return id, nil
}

// UpdateRequestStatus - безусловная запись нового статуса. Пара
// (старый статус -> новый статус) не проверяется: доска разрешает любой
// перенос между четырьмя колонками.
func (r *RequestRepository) UpdateRequestStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.RequestStatus) error {
	query := fmt.Sprintf("UPDATE %s SET status = $1 WHERE id = $2", requestTable)

	result, err := r.getQuerier(tx).Exec(ctx, query, status, id)
	if err != nil {
		return classifyDBError(err)
	}
	if result.RowsAffected() == 0 {
		return classifyDBError(pgx.ErrNoRows)
	}
	return nil
}

func (r *RequestRepository) AssignTechnician(ctx context.Context, id uint64, technicianID uint64) error {
	query := fmt.Sprintf("UPDATE %s SET technician_id = $1 WHERE id = $2", requestTable)

	result, err := r.storage.Exec(ctx, query, null.Uint64From(technicianID), id)
	if err != nil {
		return classifyDBError(err)
	}
	if result.RowsAffected() == 0 {
		return classifyDBError(pgx.ErrNoRows)
	}
	return nil
}

// GetScheduledBetween возвращает заявки с scheduled_date внутри
// [from; to). Заявки без даты в выборку не попадают.
func (r *RequestRepository) GetScheduledBetween(ctx context.Context, from time.Time, to time.Time) ([]entities.Request, error) {
	builder := r.selectBuilder().
		Where(sq.GtOrEq{"r.scheduled_date": from}).
		Where(sq.Lt{"r.scheduled_date": to}).
		OrderBy("r.scheduled_date ASC")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("сборка календарного запроса: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, classifyDBError(err)
	}
	defer rows.Close()

	return r.collectRows(rows)
}

func (r *RequestRepository) CountOpen(ctx context.Context) (uint64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status NOT IN ($1, $2)", requestTable)

	var total uint64
	if err := r.storage.QueryRow(ctx, query, entities.StatusRepaired, entities.StatusScrap).Scan(&total); err != nil {
		return 0, classifyDBError(err)
	}
	return total, nil
}
