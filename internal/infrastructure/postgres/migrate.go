package postgres

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Comandos soportados por Migrate.
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
)

// Migrate ejecuta un comando goose sobre las migraciones embebidas, reutilizando el pool pgx.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	switch command {
	case MigrateUp:
		return goose.UpContext(ctx, db, migrationsDir)
	case MigrateDown:
		return goose.DownContext(ctx, db, migrationsDir)
	case MigrateStatus:
		return goose.StatusContext(ctx, db, migrationsDir)
	case MigrateVersion:
		return goose.VersionContext(ctx, db, migrationsDir)
	}
	return fmt.Errorf("comando de migración desconocido: %q", command)
}
