package notification

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// InboxUseCase lectura y marcado de notificaciones del usuario actual.
type InboxUseCase struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewInboxUseCase construye el caso de uso.
func NewInboxUseCase(repo repository.NotificationRepository) *InboxUseCase {
	return &InboxUseCase{repo: repo, now: time.Now}
}

// Inbox listado con contadores para la cabecera de la página.
type Inbox struct {
	Items          []*entity.Notification
	Total          int
	Unread         int
	UnreadLowStock int
}

// List devuelve las notificaciones del destinatario y los contadores derivados.
func (uc *InboxUseCase) List(ctx context.Context, recipientID string, filter repository.NotificationFilter) (*Inbox, error) {
	if recipientID == "" {
		return nil, domain.ErrUnauthorized
	}
	items, err := uc.repo.ListByRecipient(ctx, recipientID, filter)
	if err != nil {
		return nil, err
	}
	out := &Inbox{Items: items, Total: len(items)}
	for _, n := range items {
		if n.Read {
			continue
		}
		out.Unread++
		if n.Kind == entity.NotificationLowStock || n.Kind == entity.NotificationZeroStock {
			out.UnreadLowStock++
		}
	}
	return out, nil
}

// UnreadCount contador para la campana de notificaciones.
func (uc *InboxUseCase) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return uc.repo.CountUnread(ctx, recipientID)
}

// MarkRead marca una notificación propia como leída.
func (uc *InboxUseCase) MarkRead(ctx context.Context, recipientID, id string) error {
	if id == "" {
		return domain.NewValidationError("id", "es requerido")
	}
	return uc.repo.MarkRead(ctx, recipientID, id, uc.now())
}

// MarkAllRead marca todas las no leídas del destinatario. Devuelve cuántas cambió.
func (uc *InboxUseCase) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return uc.repo.MarkAllRead(ctx, recipientID, uc.now())
}
