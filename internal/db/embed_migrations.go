package db

import "embed"

// MigrationFS : SQL миграции схемы пользователей
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
