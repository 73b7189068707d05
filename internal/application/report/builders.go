package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
)

// categoryFallback se muestra cuando el producto no tiene categoría.
const categoryFallback = "N/A"

// Etiquetas del estado en el reporte de catálogo.
const (
	StatusZero      = "Zerado"
	StatusLow       = "Baixo"
	StatusAttention = "Atenção"
	StatusNormal    = "Normal"
)

var catalogColumns = []Column{
	{Key: "nome", Label: "Nome do Produto", Kind: KindText},
	{Key: "categoria", Label: "Categoria", Kind: KindText},
	{Key: "estoque_atual", Label: "Estoque Atual", Kind: KindInteger},
	{Key: "estoque_minimo", Label: "Estoque Mínimo", Kind: KindInteger},
	{Key: "unidade_medida", Label: "Unidade", Kind: KindText},
	{Key: "valor_unitario", Label: "Valor Unitário (R$)", Kind: KindMoney},
	{Key: "status_estoque", Label: "Status do Estoque", Kind: KindText},
}

var movementColumns = []Column{
	{Key: "data", Label: "Data", Kind: KindDate},
	{Key: "produto", Label: "Produto", Kind: KindText},
	{Key: "categoria", Label: "Categoria", Kind: KindText},
	{Key: "tipo", Label: "Tipo", Kind: KindText},
	{Key: "quantidade", Label: "Quantidade", Kind: KindInteger},
	{Key: "valor_unitario", Label: "Valor Unitário (R$)", Kind: KindMoney},
	{Key: "valor_total", Label: "Valor Total (R$)", Kind: KindMoney},
	{Key: "observacoes", Label: "Observações", Kind: KindText},
}

var restockColumns = []Column{
	{Key: "nome", Label: "Nome do Produto", Kind: KindText},
	{Key: "categoria", Label: "Categoria", Kind: KindText},
	{Key: "estoque_atual", Label: "Estoque Atual", Kind: KindInteger},
	{Key: "estoque_minimo", Label: "Estoque Mínimo", Kind: KindInteger},
	{Key: "diferenca", Label: "Quantidade Necessária", Kind: KindInteger},
	{Key: "unidade_medida", Label: "Unidade", Kind: KindText},
	{Key: "valor_unitario", Label: "Valor Unitário (R$)", Kind: KindMoney},
	{Key: "valor_reposicao", Label: "Valor para Reposição (R$)", Kind: KindMoney},
}

func category(name string) string {
	if name == "" {
		return categoryFallback
	}
	return name
}

// StatusLabel etiqueta de estado: Zerado, Baixo, Atenção o Normal.
func StatusLabel(c stockrules.Classified) string {
	switch {
	case c.Band == stockrules.BandZero:
		return StatusZero
	case c.Band == stockrules.BandLow:
		return StatusLow
	case c.Attention:
		return StatusAttention
	default:
		return StatusNormal
	}
}

// Catalog una fila por producto, en el orden recibido. Los productos nil se omiten.
func Catalog(products []*entity.Product, policy stockrules.Policy) *Table {
	if policy == nil {
		policy = stockrules.RelativePolicy{}
	}
	t := &Table{Name: "relatorio-produtos", Title: "Relatório de Produtos", Columns: catalogColumns}
	for _, p := range products {
		if p == nil {
			continue
		}
		band := stockrules.Classify(p.CurrentStock, p.MinimumStock, policy)
		c := stockrules.Classified{
			Product:   p,
			Band:      band,
			Attention: band == stockrules.BandNormal && stockrules.NeedsAttention(p.CurrentStock, p.MinimumStock),
		}
		t.Rows = append(t.Rows, Row{
			p.Name,
			category(p.CategoryName),
			p.CurrentStock,
			p.MinimumStock,
			p.UnitMeasure,
			money(p.UnitPrice),
			StatusLabel(c),
		})
	}
	return t
}

// Movements una fila por movimiento. loc define el día mostrado en la columna Data.
func Movements(movs []*entity.Movement, loc *time.Location) *Table {
	if loc == nil {
		loc = time.UTC
	}
	t := &Table{Name: "relatorio-movimentacoes", Title: "Relatório de Movimentações", Columns: movementColumns}
	for _, m := range movs {
		if m == nil {
			continue
		}
		product := m.ProductName
		if product == "" {
			product = categoryFallback
		}
		t.Rows = append(t.Rows, Row{
			m.CreatedAt.In(loc),
			product,
			category(m.CategoryName),
			m.Kind.Label(),
			m.Quantity,
			money(m.UnitPrice),
			money(m.TotalValue),
			m.Notes,
		})
	}
	return t
}

// Restock productos activos con current <= minimum. Valor para Reposição = faltante × precio (0 sin precio).
func Restock(products []*entity.Product) *Table {
	t := &Table{Name: "relatorio-estoque-baixo", Title: "Relatório de Reposição", Columns: restockColumns}
	for _, p := range products {
		if p == nil || p.CurrentStock > p.MinimumStock {
			continue
		}
		needed := p.MinimumStock - p.CurrentStock
		value := decimal.Zero
		if p.UnitPrice != nil {
			value = p.UnitPrice.Mul(decimal.NewFromInt(needed))
		}
		t.Rows = append(t.Rows, Row{
			p.Name,
			category(p.CategoryName),
			p.CurrentStock,
			p.MinimumStock,
			needed,
			p.UnitMeasure,
			money(p.UnitPrice),
			value,
		})
	}
	return t
}
