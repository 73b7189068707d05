package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/notification"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

const recipient = "22222222-2222-2222-2222-222222222222"

func seed(t *testing.T, store *memory.Store, id, name string, current, minimum int64) {
	t.Helper()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: id, Name: name, UnitMeasure: "cx", CurrentStock: current, MinimumStock: minimum, Active: true,
	}))
}

func newReconciler(store *memory.Store, notifRepo repository.NotificationRepository) *notification.Reconciler {
	if notifRepo == nil {
		notifRepo = store.Notifications()
	}
	return notification.NewReconciler(store.Products(), notifRepo, store.Profiles(), stockrules.RelativePolicy{}, zerolog.Nop())
}

func TestReconcileRecipient_EsIdempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "p1", "Caneta", 2, 5)
	seed(t, store, "p2", "Papel", 0, 5)
	seed(t, store, "p3", "Grampo", 50, 5)
	r := newReconciler(store, nil)

	first, err := r.ReconcileRecipient(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Evaluated)
	assert.Equal(t, 2, first.Alerts)
	assert.Equal(t, 2, first.Created)

	second, err := r.ReconcileRecipient(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, 2, second.Skipped)

	items, err := store.Notifications().ListByRecipient(ctx, recipient, repository.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	byProduct := map[string]*entity.Notification{}
	for _, n := range items {
		byProduct[n.ProductID] = n
	}
	low := byProduct["p1"]
	require.NotNil(t, low)
	assert.Equal(t, entity.NotificationLowStock, low.Kind)
	assert.Equal(t, notification.TitleLowStock, low.Title)
	assert.Equal(t, "O produto Caneta está com apenas 2 unidades em estoque.", low.Message)

	var meta entity.StockAlertMetadata
	require.NoError(t, json.Unmarshal(low.Metadata, &meta))
	assert.Equal(t, entity.StockAlertMetadata{Product: "Caneta", Current: 2, Minimum: 5, Unit: "cx"}, meta)

	zero := byProduct["p2"]
	require.NotNil(t, zero)
	assert.Equal(t, entity.NotificationZeroStock, zero.Kind)
	assert.Equal(t, notification.TitleZeroStock, zero.Title)
}

func TestReconcileRecipient_TrasLeerVuelveAAvisar(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "p1", "Caneta", 2, 5)
	r := newReconciler(store, nil)

	_, err := r.ReconcileRecipient(ctx, recipient)
	require.NoError(t, err)
	_, err = store.Notifications().MarkAllRead(ctx, recipient, time.Now())
	require.NoError(t, err)

	res, err := r.ReconcileRecipient(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created, "la clave solo bloquea mientras haya una no leída")
}

func TestReconcileAll_SoloPerfilesActivosConEdicion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seed(t, store, "p1", "Caneta", 1, 5)
	profiles := []*entity.Profile{
		{ID: "a", Name: "Ana", Role: "admin", Active: true},
		{ID: "b", Name: "Bruno", Role: "operador", Active: true},
		{ID: "c", Name: "Carla", Role: "consulta", Active: true},
		{ID: "d", Name: "Davi", Role: "operador", Active: false},
		{ID: "e", Name: "Eva", Role: "super_admin", Active: true},
	}
	for _, p := range profiles {
		require.NoError(t, store.Profiles().Create(ctx, p))
	}

	res, err := newReconciler(store, nil).ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Recipients)
	assert.Equal(t, 3, res.Created)

	for id, want := range map[string]int{"a": 1, "b": 1, "c": 0, "d": 0, "e": 1} {
		n, err := store.Notifications().CountUnread(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, n, "destinatario %s", id)
	}
}

type notificationRepoMock struct {
	mock.Mock
	repository.NotificationRepository
}

func (m *notificationRepoMock) HasOpen(ctx context.Context, key repository.DedupKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *notificationRepoMock) CreateIfAbsent(ctx context.Context, n *entity.Notification) (bool, error) {
	args := m.Called(ctx, n)
	return args.Bool(0), args.Error(1)
}

func TestReconcileRecipient_FallosPorProductoNoDetienenElBarrido(t *testing.T) {
	store := memory.NewStore()
	seed(t, store, "p1", "Caneta", 1, 5)
	seed(t, store, "p2", "Papel", 1, 5)
	seed(t, store, "p3", "Lápis", 1, 5)
	seed(t, store, "p4", "Régua", 1, 5)

	keyFor := func(id string) repository.DedupKey {
		return repository.DedupKey{RecipientID: recipient, ProductID: id, Kind: entity.NotificationLowStock}
	}
	forProduct := func(id string) interface{} {
		return mock.MatchedBy(func(n *entity.Notification) bool { return n.ProductID == id })
	}

	repo := new(notificationRepoMock)
	repo.On("HasOpen", mock.Anything, keyFor("p1")).Return(false, errors.New("conexión perdida"))
	repo.On("HasOpen", mock.Anything, keyFor("p2")).Return(false, nil)
	repo.On("HasOpen", mock.Anything, keyFor("p3")).Return(false, nil)
	repo.On("HasOpen", mock.Anything, keyFor("p4")).Return(true, nil)
	repo.On("CreateIfAbsent", mock.Anything, forProduct("p2")).Return(false, errors.New("timeout"))
	repo.On("CreateIfAbsent", mock.Anything, forProduct("p3")).Return(true, nil)

	res, err := newReconciler(store, repo).ReconcileRecipient(context.Background(), recipient)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Alerts)
	assert.Equal(t, 2, res.Failed)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
	repo.AssertExpectations(t)
	repo.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, forProduct("p1"))
}

func TestStockMessage(t *testing.T) {
	assert.Equal(t, "O produto Papel A4 está com apenas 0 unidades em estoque.", notification.StockMessage("Papel A4", 0))
	assert.Equal(t, entity.NotificationZeroStock, notification.KindForBand(stockrules.BandZero))
	assert.Equal(t, entity.NotificationLowStock, notification.KindForBand(stockrules.BandLow))
}
