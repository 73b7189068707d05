package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo.
// CurrentStock solo cambia vía movimientos (ledger); la baja es lógica (Active=false).
type Product struct {
	ID           string
	CategoryID   string
	CategoryName string // solo lectura (JOIN con categories)
	Name         string
	Description  string
	UnitMeasure  string
	CurrentStock int64
	MinimumStock int64
	UnitPrice    *decimal.Decimal // opcional
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockValue devuelve CurrentStock * UnitPrice (cero si no hay precio).
func (p *Product) StockValue() decimal.Decimal {
	if p.UnitPrice == nil {
		return decimal.Zero
	}
	return p.UnitPrice.Mul(decimal.NewFromInt(p.CurrentStock))
}
