package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/notification"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func seedNotification(t *testing.T, store *memory.Store, id, recipientID, kind string, at time.Time) {
	t.Helper()
	created, err := store.Notifications().CreateIfAbsent(context.Background(), &entity.Notification{
		ID: id, RecipientID: recipientID, Kind: kind, Title: "Aviso " + id, CreatedAt: at,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestInbox_ListYContadores(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	seedNotification(t, store, "n1", recipient, entity.NotificationLowStock, base)
	seedNotification(t, store, "n2", recipient, entity.NotificationZeroStock, base.Add(time.Minute))
	seedNotification(t, store, "n3", recipient, entity.NotificationSystem, base.Add(2*time.Minute))
	seedNotification(t, store, "n4", "otro", entity.NotificationLowStock, base)

	uc := notification.NewInboxUseCase(store.Notifications())
	require.NoError(t, uc.MarkRead(ctx, recipient, "n1"))

	inbox, err := uc.List(ctx, recipient, repository.NotificationFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, inbox.Total)
	assert.Equal(t, 2, inbox.Unread)
	assert.Equal(t, 1, inbox.UnreadLowStock)
	assert.Equal(t, "n3", inbox.Items[0].ID, "más recientes primero")

	count, err := uc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	updated, err := uc.MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)

	count, err = uc.UnreadCount(ctx, "otro")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "no toca las de otros destinatarios")
}

func TestInbox_Errores(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seedNotification(t, store, "n1", "otro", entity.NotificationSystem, time.Now())
	uc := notification.NewInboxUseCase(store.Notifications())

	_, err := uc.List(ctx, "", repository.NotificationFilter{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, uc.MarkRead(ctx, recipient, "n1"), domain.ErrNotFound, "ajena")
	assert.ErrorIs(t, uc.MarkRead(ctx, recipient, ""), domain.ErrInvalidInput)
}
