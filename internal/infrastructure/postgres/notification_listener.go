package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/notification"
)

// notifyChannel canal usado por el trigger notificacoes_notify.
const notifyChannel = "notificacoes"

const (
	listenMinBackoff = time.Second
	listenMaxBackoff = 30 * time.Second
)

// Publisher destino de los eventos recibidos (el broker de streams).
type Publisher interface {
	Publish(ev notification.Event) int
}

// NotificationListener mantiene un único LISTEN sobre una conexión propia, fuera del pool,
// y publica cada evento. La cantidad de streams abiertos no consume conexiones del pool.
type NotificationListener struct {
	connConfig *pgx.ConnConfig
	out        Publisher
	log        zerolog.Logger
}

// NewNotificationListener toma la configuración de conexión del pool (DSN, dialer IPv4).
func NewNotificationListener(pool *pgxpool.Pool, out Publisher, log zerolog.Logger) *NotificationListener {
	return &NotificationListener{
		connConfig: pool.Config().ConnConfig.Copy(),
		out:        out,
		log:        log,
	}
}

// Run escucha hasta que ctx termina, reconectando con backoff exponencial.
func (l *NotificationListener) Run(ctx context.Context) {
	backoff := listenMinBackoff
	for {
		started := time.Now()
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if time.Since(started) > listenMaxBackoff {
			backoff = listenMinBackoff
		}
		l.log.Warn().Err(err).Dur("reintento_en", backoff).Msg("listener de notificaciones desconectado")
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > listenMaxBackoff {
			backoff = listenMaxBackoff
		}
	}
}

func (l *NotificationListener) listen(ctx context.Context) error {
	conn, err := pgx.ConnectConfig(ctx, l.connConfig)
	if err != nil {
		return fmt.Errorf("connect listener: %w", err)
	}
	defer func() { _ = conn.Close(context.Background()) }()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.log.Info().Msg("escuchando notificaciones")

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait notification: %w", err)
		}
		var ev notification.Event
		if err := json.Unmarshal([]byte(n.Payload), &ev); err != nil {
			l.log.Warn().Err(err).Str("payload", n.Payload).Msg("payload de notificación inválido")
			continue
		}
		l.out.Publish(ev)
	}
}
