// Comando migrate aplica las migraciones embebidas: migrate [up|down|status] (default up).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("error ejecutando migraciones: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "migrate"})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	cmd := "up"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	log.Info().Str("cmd", cmd).Msg("iniciando migración")

	zl := log.Component("goose")
	switch cmd {
	case "up":
		err = postgres.Migrate(ctx, pool, zl)
	case "down":
		err = postgres.MigrateDown(ctx, pool, zl)
	case "status":
		err = postgres.MigrationStatus(ctx, pool, zl)
	default:
		return fmt.Errorf("comando desconocido %q (up, down, status)", cmd)
	}
	if err != nil {
		return err
	}
	log.Info().Str("cmd", cmd).Msg("migración completada")
	return nil
}
