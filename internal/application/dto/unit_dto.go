package dto

import "time"

// UnitRequest entrada para crear o actualizar una unidad.
type UnitRequest struct {
	Name        string `json:"nome" validate:"notblank,max=200"`
	Description string `json:"descricao" validate:"max=2000"`
	Address     string `json:"endereco" validate:"max=500"`
}

// UnitResponse salida de una unidad.
type UnitResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"nome"`
	Description string    `json:"descricao"`
	Address     string    `json:"endereco"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UnitStockResponse stock asignado a la unidad por producto.
type UnitStockResponse struct {
	ProductID    string    `json:"produto_id"`
	ProductName  string    `json:"produto"`
	Quantity     int64     `json:"estoque_local"`
	MinimumStock int64     `json:"estoque_minimo"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UnitDetailResponse unidad con su stock.
type UnitDetailResponse struct {
	UnitResponse
	Stock []UnitStockResponse `json:"produtos"`
}
