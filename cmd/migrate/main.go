package main

import (
	"flag"
	"log"
	"os"

	"club-admin-server/config"
	"club-admin-server/internal/db/migrate"
)

func main() {
	direction := flag.String("direction", migrate.DirectionUp, "направление миграций: up или down")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath())
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := migrate.Run(cfg.DatabaseConfig.DSN, *direction); err != nil {
		log.Fatalf("Ошибка миграций: %v", err)
	}
	log.Printf("Миграции (%s) применены", *direction)
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config.yaml"
}
