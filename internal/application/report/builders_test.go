package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/estoque-api/internal/application/report"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCatalog_ColumnasYFilas(t *testing.T) {
	products := []*entity.Product{
		{ID: "1", Name: "Caneta", CategoryName: "Escritório", UnitMeasure: "un", CurrentStock: 2, MinimumStock: 5, UnitPrice: price("1.50"), Active: true},
		{ID: "2", Name: "Papel", UnitMeasure: "resma", CurrentStock: 7, MinimumStock: 5, Active: true},
	}

	table := report.Catalog(products, stockrules.RelativePolicy{})

	assert.Equal(t, "relatorio-produtos", table.Name)
	assert.Equal(t, []string{
		"Nome do Produto", "Categoria", "Estoque Atual", "Estoque Mínimo",
		"Unidade", "Valor Unitário (R$)", "Status do Estoque",
	}, table.Labels())
	require.Len(t, table.Rows, 2)
	assert.Equal(t, report.Row{"Caneta", "Escritório", int64(2), int64(5), "un", decimal.RequireFromString("1.50"), "Baixo"}, table.Rows[0])
	assert.Equal(t, report.Row{"Papel", "N/A", int64(7), int64(5), "resma", nil, "Atenção"}, table.Rows[1])
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Zerado", report.StatusLabel(stockrules.Classified{Band: stockrules.BandZero}))
	assert.Equal(t, "Baixo", report.StatusLabel(stockrules.Classified{Band: stockrules.BandLow}))
	assert.Equal(t, "Atenção", report.StatusLabel(stockrules.Classified{Band: stockrules.BandNormal, Attention: true}))
	assert.Equal(t, "Normal", report.StatusLabel(stockrules.Classified{Band: stockrules.BandNormal}))
}

func TestRestock_FaltanteYValor(t *testing.T) {
	table := report.Restock([]*entity.Product{
		{Name: "Caneta", CurrentStock: 2, MinimumStock: 10, UnitPrice: price("1.25"), UnitMeasure: "un"},
		{Name: "Papel", CurrentStock: 0, MinimumStock: 4, UnitMeasure: "resma"},
		{Name: "Grampo", CurrentStock: 5, MinimumStock: 5, UnitPrice: price("3")},
		{Name: "Clipe", CurrentStock: 9, MinimumStock: 5},
	})

	assert.Equal(t, "relatorio-estoque-baixo", table.Name)
	assert.Equal(t, "Quantidade Necessária", table.Columns[4].Label)
	assert.Equal(t, "Valor para Reposição (R$)", table.Columns[7].Label)
	require.Len(t, table.Rows, 3, "Clipe está por encima del mínimo")

	assert.Equal(t, int64(8), table.Rows[0][4])
	assert.True(t, decimal.RequireFromString("10").Equal(table.Rows[0][7].(decimal.Decimal)))
	assert.Nil(t, table.Rows[1][6])
	assert.True(t, decimal.Zero.Equal(table.Rows[1][7].(decimal.Decimal)), "sin precio el valor es cero")
	assert.Equal(t, int64(0), table.Rows[2][4])
}

func TestMovements_FechaEnZonaLocal(t *testing.T) {
	sp, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	table := report.Movements([]*entity.Movement{{
		ProductName: "Caneta",
		Kind:        entity.MovementExit,
		Quantity:    3,
		UnitPrice:   price("2"),
		TotalValue:  price("6"),
		Notes:       "uso interno",
		CreatedAt:   time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC),
	}}, sp)

	assert.Equal(t, []string{
		"Data", "Produto", "Categoria", "Tipo", "Quantidade",
		"Valor Unitário (R$)", "Valor Total (R$)", "Observações",
	}, table.Labels())
	require.Len(t, table.Rows, 1)
	row := table.Rows[0]
	assert.Equal(t, 10, row[0].(time.Time).Day())
	assert.Equal(t, "Saída", row[3])
	assert.Equal(t, "N/A", row[2])
	assert.Equal(t, "uso interno", row[7])
}

func TestTable_FileName(t *testing.T) {
	table := &report.Table{Name: "relatorio-produtos"}
	assert.Equal(t, "relatorio-produtos-2024-03-10.csv", table.FileName(time.Date(2024, 3, 10, 23, 0, 0, 0, time.UTC), "csv"))
}

func TestUseCase_CatalogOmiteInactivos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "1", Name: "Caneta", CurrentStock: 1, MinimumStock: 5, Active: true}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "2", Name: "Borracha", CurrentStock: 1, MinimumStock: 5, Active: false}))

	uc := report.NewUseCase(store.Products(), store.Movements(), nil, nil)
	table, err := uc.CatalogTable(ctx, repository.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Caneta", table.Rows[0][0])

	restock, err := uc.RestockTable(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, restock.Rows, 1)
	assert.Equal(t, time.UTC, uc.Location())
}
