package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedDictionaries наполняет справочники: команды и техников.
func SeedDictionaries(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения справочников...")

	if err := seedTeams(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Команд (Teams): %v", err)
	}
	if err := seedTechnicians(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Техников (Technicians): %v", err)
	}
	log.Println("✅ Наполнение справочников завершено!")
}

// SeedEquipment наполняет парк оборудования демонстрационными записями.
func SeedEquipment(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения парка оборудования...")

	if err := seedEquipments(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения Оборудования (Equipments): %v", err)
	}
	log.Println("✅ Наполнение парка оборудования завершено!")
}
