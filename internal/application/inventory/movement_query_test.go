package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func seedMovement(t *testing.T, store *memory.Store, id, productID string, kind entity.MovementKind, qty int64, at time.Time) {
	t.Helper()
	require.NoError(t, store.Movements().Create(context.Background(), &entity.Movement{
		ID:        id,
		ProductID: productID,
		Kind:      kind,
		Quantity:  qty,
		ActorID:   actor,
		CreatedAt: at,
	}))
}

func TestMovementQuery_Stats(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", 0)
	seedProduct(t, store, "p2", 0)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedMovement(t, store, "m1", "p1", entity.MovementEntry, 10, base)
	seedMovement(t, store, "m2", "p1", entity.MovementExit, 4, base.Add(24*time.Hour))
	seedMovement(t, store, "m3", "p2", entity.MovementEntry, 3, base.Add(48*time.Hour))
	seedMovement(t, store, "m4", "p2", entity.MovementEntry, 99, base.AddDate(0, 1, 0))

	uc := inventory.NewMovementQueryUseCase(store.Movements(), time.UTC)
	from, to := inventory.MonthRange(base, time.UTC)
	stats, err := uc.Stats(context.Background(), from, to, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Summary.EntryCount)
	assert.Equal(t, 1, stats.Summary.ExitCount)
	assert.Equal(t, int64(9), stats.Summary.Net)
	assert.Len(t, stats.Daily, 3)
	require.Len(t, stats.TopMoved, 1)
	assert.Equal(t, "p1", stats.TopMoved[0].ProductID)
	assert.Equal(t, "Produto p1", stats.TopMoved[0].ProductName)
}

func TestMovementQuery_ListYLatest(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", 0)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"m1", "m2", "m3"} {
		seedMovement(t, store, id, "p1", entity.MovementEntry, 1, base.Add(time.Duration(i)*time.Hour))
	}
	uc := inventory.NewMovementQueryUseCase(store.Movements(), nil)

	latest, err := uc.Latest(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "m3", latest[0].ID, "más recientes primero")
	assert.Equal(t, "m2", latest[1].ID)

	exits, err := uc.List(context.Background(), repository.MovementFilter{Kind: entity.MovementExit})
	require.NoError(t, err)
	assert.Empty(t, exits)
}

func TestMovementQuery_Today(t *testing.T) {
	store := memory.NewStore()
	seedProduct(t, store, "p1", 0)
	seedMovement(t, store, "m1", "p1", entity.MovementEntry, 5, time.Now())
	seedMovement(t, store, "m2", "p1", entity.MovementEntry, 5, time.Now().AddDate(0, 0, -3))

	summary, err := inventory.NewMovementQueryUseCase(store.Movements(), time.UTC).Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EntryCount)
	assert.Equal(t, int64(5), summary.EntryQuantity)
}

func TestDayRangeYMonthRange(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	start, end := inventory.DayRange(time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC), sp)
	assert.Equal(t, 10, start.Day())
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 10, end.Day())

	first, last := inventory.MonthRange(time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, 1, first.Day())
	assert.Equal(t, 29, last.Day(), "2024 es bisiesto")
}

func TestDayRange_DiasConCambioDeHorario(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name  string
		day   time.Time
		hours float64
	}{
		{"adelanta el reloj (23h)", time.Date(2024, 3, 10, 12, 0, 0, 0, ny), 23},
		{"atrasa el reloj (25h)", time.Date(2024, 11, 3, 12, 0, 0, 0, ny), 25},
		{"día normal", time.Date(2024, 6, 1, 12, 0, 0, 0, ny), 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := inventory.DayRange(tt.day, ny)
			assert.Equal(t, tt.day.Day(), start.Day())
			assert.Equal(t, tt.day.Day(), end.Day())
			assert.Equal(t, 23, end.Hour())
			assert.Equal(t, 59, end.Minute())
			assert.InDelta(t, tt.hours, end.Add(time.Nanosecond).Sub(start).Hours(), 1e-9)
		})
	}
}
