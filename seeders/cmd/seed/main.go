package main

import (
	"flag"
	"log"

	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runDictionaries := flag.Bool("dictionaries", false, "Запустить наполнение справочников (команды, техники)")
	runEquipment := flag.Bool("equipment", false, "Запустить наполнение парка оборудования")
	runAll := flag.Bool("all", false, "Запустить все сидеры")

	flag.Parse()

	if !*runDictionaries && !*runEquipment && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		return
	}

	cfg := config.New()
	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	if *runDictionaries || *runAll {
		seeders.SeedDictionaries(db)
	}
	if *runEquipment || *runAll {
		seeders.SeedEquipment(db)
	}

	log.Println("🏁 Работа сидеров завершена.")
}
