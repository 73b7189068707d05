package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialStock se registra como entrada en el ledger.
type CreateProductRequest struct {
	Name         string           `json:"nome" validate:"notblank,max=200"`
	Description  string           `json:"descricao" validate:"max=2000"`
	CategoryID   string           `json:"categoria_id" validate:"omitempty,uuid"`
	UnitMeasure  string           `json:"unidade_medida" validate:"notblank,max=20"`
	InitialStock int64            `json:"estoque_atual" validate:"gte=0"`
	MinimumStock int64            `json:"estoque_minimo" validate:"gte=0"`
	UnitPrice    *decimal.Decimal `json:"valor_unitario"`
}

// UpdateProductRequest entrada para actualizar un producto (sin stock: se maneja vía movimientos).
type UpdateProductRequest struct {
	Name         *string          `json:"nome" validate:"omitempty,notblank,max=200"`
	Description  *string          `json:"descricao" validate:"omitempty,max=2000"`
	CategoryID   *string          `json:"categoria_id" validate:"omitempty,uuid"`
	UnitMeasure  *string          `json:"unidade_medida" validate:"omitempty,notblank,max=20"`
	MinimumStock *int64           `json:"estoque_minimo" validate:"omitempty,gte=0"`
	UnitPrice    *decimal.Decimal `json:"valor_unitario"`
}

// ProductFilterRequest filtros de listado.
type ProductFilterRequest struct {
	CategoryID string `query:"categoria"`
	Search     string `query:"busca"`
	PageRequest
}

// ProductResponse salida de un producto con su estado de stock.
type ProductResponse struct {
	ID           string           `json:"id"`
	Name         string           `json:"nome"`
	Description  string           `json:"descricao"`
	CategoryID   string           `json:"categoria_id,omitempty"`
	CategoryName string           `json:"categoria,omitempty"`
	UnitMeasure  string           `json:"unidade_medida"`
	CurrentStock int64            `json:"estoque_atual"`
	MinimumStock int64            `json:"estoque_minimo"`
	UnitPrice    *decimal.Decimal `json:"valor_unitario"`
	StockValue   decimal.Decimal  `json:"valor_em_estoque"`
	StockStatus  string           `json:"status_estoque"` // normal, baixo, zerado
	Attention    bool             `json:"atencao"`
	Active       bool             `json:"ativo"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name string `json:"nome" validate:"notblank,max=100"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nome"`
	CreatedAt time.Time `json:"created_at"`
}
