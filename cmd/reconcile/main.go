// Comando reconcile ejecuta un barrido de alertas de stock para todos los perfiles activos
// con permiso de edición. Pensado para cron; repetirlo sin cambios no crea notificaciones.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/notification"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/postgres"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"
)

const sweepTimeout = 2 * time.Minute

func main() {
	if err := run(); err != nil {
		fmt.Printf("error en el barrido de alertas: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, sweepTimeout)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "reconcile"})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()

	reconciler := notification.NewReconciler(
		postgres.NewProductRepository(pool),
		postgres.NewNotificationRepository(pool),
		postgres.NewProfileRepository(pool),
		stockrules.PolicyFromConfig(cfg.Stock.Policy, int64(cfg.Stock.AbsoluteThreshold)),
		log.Zerolog(),
	)

	start := time.Now()
	res, err := reconciler.ReconcileAll(ctx)
	if err != nil {
		return err
	}
	log.Info().
		Int("destinatarios", res.Recipients).
		Int("avaliados", res.Evaluated).
		Int("alertas", res.Alerts).
		Int("criadas", res.Created).
		Int("ignoradas", res.Skipped).
		Int("falhas", res.Failed).
		Dur("duracion", time.Since(start)).
		Msg("barrido de alertas completado")
	return nil
}
