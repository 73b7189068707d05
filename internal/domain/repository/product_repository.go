package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// ProductFilter filtros de listado (categoría y búsqueda por nombre).
type ProductFilter struct {
	CategoryID      string
	Search          string // ILIKE %search%
	IncludeInactive bool
	Limit           int // 0 = sin límite
	Offset          int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// Update actualiza datos de catálogo. No modifica CurrentStock (se maneja vía movimientos).
	Update(ctx context.Context, product *entity.Product) error
	// Deactivate baja lógica (active=false).
	Deactivate(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
}

// StockMutator operaciones atómicas sobre products.current_stock.
// Cada método es un único UPDATE condicional; nunca lectura y escritura separadas.
type StockMutator interface {
	// IncrementStock suma qty y devuelve el stock resultante. ErrNotFound si el producto no existe o está inactivo.
	IncrementStock(ctx context.Context, productID string, qty int64) (int64, error)
	// DecrementStock resta qty solo si current_stock >= qty.
	// Devuelve *domain.InsufficientStockError con el disponible si no alcanza.
	DecrementStock(ctx context.Context, productID string, qty int64) (int64, error)
}

// StockWriter escrituras de productos disponibles dentro de la transacción del ledger.
type StockWriter interface {
	StockMutator
	Create(ctx context.Context, product *entity.Product) error
}
