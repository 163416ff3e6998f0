package seeders

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func seedTeams(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание базовых команд обслуживания...")

	teams := []struct {
		Name        string
		Description string
	}{
		{"Механики", "Обслуживание станков и производственных линий"},
		{"Электрики", "Электрооборудование и силовые сети"},
		{"ИТ-поддержка", "Серверное и офисное оборудование"},
	}

	for _, t := range teams {
		_, err := db.Exec(ctx, `
            INSERT INTO teams (name, description)
            VALUES ($1, $2)
            ON CONFLICT (name) DO NOTHING`,
			t.Name, t.Description,
		)
		if err != nil {
			return fmt.Errorf("не удалось вставить команду '%s': %w", t.Name, err)
		}
	}
	return nil
}
