package repositories

import (
	"context"
	"fmt"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	equipmentTable  = "equipments"
	equipmentFields = "e.id, e.name, e.serial_number, e.department, e.location, e.team_id, e.status, e.assigned_to, e.purchase_date, e.warranty_end, e.created_at, e.updated_at"
)

// allowedEquipmentFilters - белый список для фильтрации
var allowedEquipmentFilters = map[string]string{
	"team_id":    "e.team_id",
	"status":     "e.status",
	"department": "e.department",
}

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filters map[string]string, search string, limit uint64, offset uint64) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error)
	UpdateEquipmentStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEquipmentRepository(storage *pgxpool.Pool, logger *zap.Logger) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage, logger: logger}
}

// getQuerier - возвращает транзакцию или пул соединений
func (r *EquipmentRepository) getQuerier(tx pgx.Tx) Querier {
	if tx != nil {
		return tx
	}
	return r.storage
}

func (r *EquipmentRepository) scanRow(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	var team entities.Team
	err := row.Scan(
		&e.ID, &e.Name, &e.SerialNumber, &e.Department, &e.Location,
		&e.TeamID, &e.Status, &e.AssignedTo, &e.PurchaseDate, &e.WarrantyEnd,
		&e.CreatedAt, &e.UpdatedAt,
		&team.ID, &team.Name,
	)
	if err != nil {
		return nil, classifyDBError(err)
	}
	e.Team = &team
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filters map[string]string, search string, limit uint64, offset uint64) ([]entities.Equipment, uint64, error) {
	builder := sq.Select(equipmentFields + ", tm.id, tm.name").
		From(equipmentTable + " e").
		Join("teams tm ON tm.id = e.team_id").
		OrderBy("e.id ASC").
		PlaceholderFormat(sq.Dollar)

	countBuilder := sq.Select("COUNT(*)").
		From(equipmentTable + " e").
		PlaceholderFormat(sq.Dollar)

	for key, val := range filters {
		col, ok := allowedEquipmentFilters[key]
		if !ok {
			continue
		}
		builder = builder.Where(sq.Eq{col: val})
		countBuilder = countBuilder.Where(sq.Eq{col: val})
	}

	if search != "" {
		pattern := "%" + search + "%"
		cond := sq.Or{
			sq.Expr("e.name ILIKE ?", pattern),
			sq.Expr("e.serial_number ILIKE ?", pattern),
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	if limit > 0 {
		builder = builder.Limit(limit).Offset(offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка запроса списка оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, classifyDBError(err)
	}
	defer rows.Close()

	var equipments []entities.Equipment
	for rows.Next() {
		var e entities.Equipment
		var team entities.Team
		if err := rows.Scan(
			&e.ID, &e.Name, &e.SerialNumber, &e.Department, &e.Location,
			&e.TeamID, &e.Status, &e.AssignedTo, &e.PurchaseDate, &e.WarrantyEnd,
			&e.CreatedAt, &e.UpdatedAt,
			&team.ID, &team.Name,
		); err != nil {
			return nil, 0, err
		}
		e.Team = &team
		equipments = append(equipments, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyDBError(err)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка count-запроса оборудования: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, classifyDBError(err)
	}

	return equipments, total, nil
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, tx pgx.Tx, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT %s, tm.id, tm.name
		FROM %s e
			JOIN teams tm ON tm.id = e.team_id
		WHERE e.id = $1
	`, equipmentFields, equipmentTable)

	return r.scanRow(r.getQuerier(tx).QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (name, serial_number, department, location, team_id, status, assigned_to, purchase_date, warranty_end)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id
    `, equipmentTable)

	var id uint64
	err := r.storage.QueryRow(ctx, query,
		equipment.Name,
		equipment.SerialNumber,
		equipment.Department,
		equipment.Location,
		equipment.TeamID,
		equipment.Status,
		equipment.AssignedTo,
		equipment.PurchaseDate,
		equipment.WarrantyEnd,
	).Scan(&id)
	if err != nil {
		return 0, classifyDBError(err)
	}
	return id, nil
}

// UpdateEquipmentStatus - безусловная перезапись статуса (last-writer-wins).
func (r *EquipmentRepository) UpdateEquipmentStatus(ctx context.Context, tx pgx.Tx, id uint64, status entities.EquipmentStatus) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET status = $1, updated_at = CURRENT_TIMESTAMP
        WHERE id = $2
    `, equipmentTable)

	result, err := r.getQuerier(tx).Exec(ctx, query, status, id)
	if err != nil {
		return classifyDBError(err)
	}
	if result.RowsAffected() == 0 {
		return classifyDBError(pgx.ErrNoRows)
	}
	return nil
}
