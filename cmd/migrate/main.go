// migrate aplica o revierte las migraciones embebidas (goose).
//
// Uso: go run ./cmd/migrate [up|down|status|version]
// Sin argumento ejecuta "up".
package main

import (
	"context"
	"os"

	"github.com/jhoicas/pos-backoffice/internal/infrastructure/postgres"
	"github.com/jhoicas/pos-backoffice/pkg/config"
	"github.com/jhoicas/pos-backoffice/pkg/logger"
)

func main() {
	command := postgres.MigrateUp
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("migrate")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool, command); err != nil {
		log.Error().Err(err).Str("command", command).Msg("migración fallida")
		pool.Close()
		os.Exit(1)
	}
	log.Info().Str("command", command).Msg("migración completada")
}
