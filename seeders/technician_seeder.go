package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedTechnicians(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание техников...")

	technicians := []struct {
		Name string
		Role string
		Team string
	}{
		{"Рустам Каримов", "Старший механик", "Механики"},
		{"Фаррух Назаров", "Механик", "Механики"},
		{"Далер Шарипов", "Электрик", "Электрики"},
		{"Манижа Рахимова", "Инженер поддержки", "ИТ-поддержка"},
	}

	for _, t := range technicians {
		var teamID uint64
		if err := db.QueryRow(ctx, "SELECT id FROM teams WHERE name = $1", t.Team).Scan(&teamID); err != nil {
			return fmt.Errorf("не найдена команда '%s' для техника '%s': %w", t.Team, t.Name, err)
		}

		var exists bool
		if err := db.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM technicians WHERE name = $1 AND team_id = $2)",
			t.Name, teamID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("ошибка проверки техника '%s': %w", t.Name, err)
		}
		if exists {
			continue
		}

		_, err := db.Exec(ctx, `
            INSERT INTO technicians (name, role, team_id)
            VALUES ($1, $2, $3)`,
			t.Name, t.Role, teamID,
		)
		if err != nil {
			return fmt.Errorf("не удалось вставить техника '%s': %w", t.Name, err)
		}
	}
	return nil
}
