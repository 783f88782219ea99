// Package migrate применяет встроенные SQL миграции через golang-migrate.
package migrate

import (
	"errors"
	"fmt"
	"strings"

	"club-admin-server/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// Run применяет миграции в заданном направлении. Если схема уже в нужной
// версии, возвращает nil
func Run(dsn string, direction string) error {
	if strings.TrimSpace(dsn) == "" {
		return errors.New("[Migrate] не задан databaseConfig.dsn")
	}
	if direction != DirectionUp && direction != DirectionDown {
		return fmt.Errorf("[Migrate] направление должно быть up или down, получено %q", direction)
	}

	sourceDriver, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("[Migrate] источник миграций: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return fmt.Errorf("[Migrate] подключение к БД: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if direction == DirectionUp {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("[Migrate] ошибка применения миграций: %w", err)
	}

	return nil
}
