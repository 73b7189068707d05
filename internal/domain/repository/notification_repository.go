package repository

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// DedupKey identifica "la misma notificación lógica": (destinatario, producto, tipo).
type DedupKey struct {
	RecipientID string
	ProductID   string
	Kind        string
}

// NotificationFilter filtros de listado.
type NotificationFilter struct {
	UnreadOnly bool
	Kind       string
	Limit      int
}

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	// HasOpen indica si existe una notificación no leída con esa clave.
	HasOpen(ctx context.Context, key DedupKey) (bool, error)
	// CreateIfAbsent inserta salvo que ya exista una no leída con la misma clave.
	// created=false cuando otro barrido concurrente la insertó primero.
	CreateIfAbsent(ctx context.Context, n *entity.Notification) (created bool, err error)
	ListByRecipient(ctx context.Context, recipientID string, filter NotificationFilter) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
	// MarkRead marca una notificación del destinatario; ErrNotFound si no le pertenece.
	MarkRead(ctx context.Context, recipientID, id string, at time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)
}
