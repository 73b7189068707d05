package repository

import (
	"context"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// UnitRepository define el puerto de persistencia para Unit (sede/local).
type UnitRepository interface {
	Create(ctx context.Context, unit *entity.Unit) error
	GetByID(ctx context.Context, id string) (*entity.Unit, error)
	Update(ctx context.Context, unit *entity.Unit) error
	List(ctx context.Context) ([]*entity.Unit, error)
}

// UnitStockRepository asignación de stock por unidad. Solo lo escribe el ledger dentro de su transacción.
type UnitStockRepository interface {
	Increment(ctx context.Context, unitID, productID string, qty int64) (int64, error)
	// Decrement resta solo si la unidad tiene qty; si no, *domain.InsufficientStockError.
	Decrement(ctx context.Context, unitID, productID string, qty int64) (int64, error)
	// Allocated suma del stock asignado a unidades para el producto.
	Allocated(ctx context.Context, productID string) (int64, error)
	ListByUnit(ctx context.Context, unitID string) ([]*entity.UnitStock, error)
}
