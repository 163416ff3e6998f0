package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedEquipments(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание демонстрационного оборудования...")

	equipments := []struct {
		Name       string
		Serial     string
		Department string
		Location   string
		Team       string
	}{
		{"Токарный станок HAAS ST-20", "HAAS-ST20-0147", "Механический цех", "Цех 1, участок А", "Механики"},
		{"Компрессор Atlas Copco GA 30", "AC-GA30-2201", "Механический цех", "Компрессорная", "Механики"},
		{"Трансформатор ТМГ-630", "TMG-630-0034", "Энергохозяйство", "Подстанция 2", "Электрики"},
		{"Сервер Dell PowerEdge R750", "DELL-R750-8812", "ИТ-отдел", "Серверная, стойка 3", "ИТ-поддержка"},
	}

	for _, e := range equipments {
		var teamID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1", e.Team).Scan(&teamID); err != nil {
			return fmt.Errorf("не найдена команда '%s' для оборудования '%s': %w", e.Team, e.Name, err)
		}

		_, err := db.Exec(ctx, `
            INSERT INTO equipments (name, serial_number, department, location, team_id, status)
            VALUES ($1, $2, $3, $4, $5, 'Active')
            ON CONFLICT (serial_number) DO NOTHING`,
			e.Name, e.Serial, e.Department, e.Location, teamID,
		)
		if err != nil {
			return fmt.Errorf("не удалось вставить оборудование '%s': %w", e.Name, err)
		}
	}
	return nil
}
