package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

func TestMovementUseCase_Filter(t *testing.T) {
	f := newFixture()

	got, err := f.movements.Filter(dto.MovementFilterRequest{Kind: "saida", From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementExit, got.Kind)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, time.UTC), *got.To, "ate incluye el día completo")

	cases := map[string]dto.MovementFilterRequest{
		"tipo": {Kind: "transferencia"},
		"de":   {From: "01/03/2024"},
		"ate":  {To: "ontem"},
	}
	for field, in := range cases {
		_, err := f.movements.Filter(in)
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr, field)
		assert.Contains(t, verr.Fields, field)
	}

	_, err = f.movements.Filter(dto.MovementFilterRequest{From: "2024-04-01", To: "2024-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMovementUseCase_RegisterYList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	p, err := f.products.Create(ctx, actorID, dto.CreateProductRequest{Name: "Caneta", UnitMeasure: "un", InitialStock: 5})
	require.NoError(t, err)

	out, err := f.movements.Register(ctx, actorID, dto.CreateMovementRequest{ProductID: p.ID, Kind: entity.MovementExit, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "saida", out.Kind)
	assert.Equal(t, int64(3), out.StockAfter)

	adj, err := f.movements.Adjust(ctx, actorID, p.ID, dto.AdjustStockRequest{Kind: entity.MovementEntry, Quantity: 1, Reason: "inventário"})
	require.NoError(t, err)
	assert.Equal(t, "Ajuste de estoque: inventário", adj.Notes)

	list, err := f.movements.List(ctx, dto.MovementFilterRequest{ProductID: p.ID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)

	exits, err := f.movements.List(ctx, dto.MovementFilterRequest{Kind: "saida"})
	require.NoError(t, err)
	require.Len(t, exits.Items, 1)
	assert.Equal(t, "Caneta", exits.Items[0].ProductName)

	stats, err := f.movements.Stats(ctx, dto.MovementFilterRequest{}, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Summary.EntryCount)
	assert.Equal(t, 1, stats.Summary.ExitCount)
	require.Len(t, stats.TopMoved, 1)
	assert.Equal(t, 3, stats.TopMoved[0].MovementCount)
}
