package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de stock.
type MovementKind string

const (
	MovementEntry MovementKind = "entrada"
	MovementExit  MovementKind = "saida"
)

// Valid indica si el tipo es entrada o saída.
func (k MovementKind) Valid() bool {
	return k == MovementEntry || k == MovementExit
}

// Label devuelve la etiqueta mostrada en reportes.
func (k MovementKind) Label() string {
	if k == MovementEntry {
		return "Entrada"
	}
	return "Saída"
}

// Movement registro append-only de una entrada o salida de stock.
type Movement struct {
	ID           string
	ProductID    string
	UnitID       string // vacío si el movimiento no está asignado a una unidad
	Kind         MovementKind
	Quantity     int64 // siempre positivo
	UnitPrice    *decimal.Decimal
	TotalValue   *decimal.Decimal // Quantity * UnitPrice cuando hay precio
	Notes        string
	ActorID      string
	StockAfter   int64 // current_stock del producto tras aplicar el movimiento
	CreatedAt    time.Time
	ProductName  string // solo lectura
	CategoryName string // solo lectura
	UnitMeasure  string // solo lectura
}

// Delta devuelve la variación con signo sobre el stock.
func (m *Movement) Delta() int64 {
	if m.Kind == MovementExit {
		return -m.Quantity
	}
	return m.Quantity
}
