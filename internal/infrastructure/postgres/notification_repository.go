package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo notificacoes sobre PostgreSQL. El índice único parcial
// notificacoes_abertas_uidx garantiza una sola no leída por (usuario, producto, tipo).
type NotificationRepo struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

const notificationColumns = `id, usuario_id, COALESCE(produto_id::text, ''), tipo, titulo, mensagem, lida, data_leitura, metadata, created_at`

func scanNotification(row pgx.Row) (*entity.Notification, error) {
	var n entity.Notification
	var meta []byte
	err := row.Scan(&n.ID, &n.RecipientID, &n.ProductID, &n.Kind, &n.Title, &n.Message,
		&n.Read, &n.ReadAt, &meta, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	n.Metadata = meta
	return &n, nil
}

// HasOpen indica si existe una notificación no leída con la clave.
func (r *NotificationRepo) HasOpen(ctx context.Context, key repository.DedupKey) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notificacoes
			WHERE usuario_id = $1 AND produto_id = $2 AND tipo = $3 AND lida = false
		)`, key.RecipientID, key.ProductID, key.Kind).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check open notification: %w", err)
	}
	return exists, nil
}

// CreateIfAbsent inserta con ON CONFLICT DO NOTHING sobre el índice parcial de no leídas.
func (r *NotificationRepo) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	meta := []byte(n.Metadata)
	if len(meta) == 0 {
		meta = []byte("{}")
	}
	cmd, err := r.pool.Exec(ctx, `
		INSERT INTO notificacoes (id, usuario_id, produto_id, tipo, titulo, mensagem, lida, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7, $8)
		ON CONFLICT (usuario_id, produto_id, tipo) WHERE lida = false AND produto_id IS NOT NULL
		DO NOTHING`,
		n.ID, n.RecipientID, nullIfEmpty(n.ProductID), n.Kind, n.Title, n.Message, meta, n.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListByRecipient notificaciones del destinatario, más recientes primero.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID string, filter repository.NotificationFilter) ([]*entity.Notification, error) {
	var a argList
	a.add("usuario_id = ?", recipientID)
	if filter.UnreadOnly {
		a.where = append(a.where, "lida = false")
	}
	if filter.Kind != "" {
		a.add("tipo = ?", filter.Kind)
	}
	query := `SELECT ` + notificationColumns + ` FROM notificacoes` + a.clause() + ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ` + a.next(filter.Limit)
	}

	rows, err := r.pool.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// CountUnread número de no leídas del destinatario.
func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notificacoes WHERE usuario_id = $1 AND lida = false`, recipientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead marca como leída una notificación del destinatario. Idempotente si ya estaba leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, recipientID, id string, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE notificacoes SET lida = true, data_leitura = COALESCE(data_leitura, $3)
		WHERE id = $1 AND usuario_id = $2`, id, recipientID, at)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las no leídas del destinatario.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `
		UPDATE notificacoes SET lida = true, data_leitura = $2
		WHERE usuario_id = $1 AND lida = false`, recipientID, at)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return cmd.RowsAffected(), nil
}
