package entity

import "time"

// Unit representa una unidad (sede/local) donde se asigna stock.
type Unit struct {
	ID          string
	Name        string
	Description string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UnitStock parte del stock de un producto asignada a una unidad.
// La suma de UnitStock de un producto nunca supera Product.CurrentStock.
type UnitStock struct {
	UnitID       string
	ProductID    string
	ProductName  string // solo lectura
	Quantity     int64
	MinimumStock int64 // solo lectura (del producto)
	UpdatedAt    time.Time
}
