package main

import (
	"flag"
	"log"
	"os"

	"maintenance-system/pkg/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const migrationsDir = "migrations"

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		log.Println("Использование: migrate <up|down|status|version> [аргументы goose]")
		os.Exit(1)
	}
	command := args[0]

	cfg := config.New()

	db, err := goose.OpenDBWithDriver("pgx", cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("❌ Не удалось открыть соединение с БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Fatalf("❌ Не удалось закрыть соединение с БД: %v", err)
		}
	}()

	if err := goose.Run(command, db, migrationsDir, args[1:]...); err != nil {
		log.Fatalf("❌ Миграция '%s' завершилась с ошибкой: %v", command, err)
	}
	log.Printf("✅ Миграция '%s' выполнена", command)
}
