package report

import (
	"context"
	"fmt"
	"time"

	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// UseCase consulta los datos y arma la tabla de cada reporte.
type UseCase struct {
	productRepo repository.ProductRepository
	movRepo     repository.MovementRepository
	policy      stockrules.Policy
	loc         *time.Location
}

// NewUseCase construye el caso de uso de reportes.
func NewUseCase(
	productRepo repository.ProductRepository,
	movRepo repository.MovementRepository,
	policy stockrules.Policy,
	loc *time.Location,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{productRepo: productRepo, movRepo: movRepo, policy: policy, loc: loc}
}

// Location zona horaria usada para fechas y nombres de archivo.
func (uc *UseCase) Location() *time.Location { return uc.loc }

// CatalogTable reporte de productos activos con los filtros de listado.
func (uc *UseCase) CatalogTable(ctx context.Context, filter repository.ProductFilter) (*Table, error) {
	filter.IncludeInactive = false
	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reporte de productos: %w", err)
	}
	return Catalog(products, uc.policy), nil
}

// MovementsTable reporte del ledger filtrado.
func (uc *UseCase) MovementsTable(ctx context.Context, filter repository.MovementFilter) (*Table, error) {
	movs, err := uc.movRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reporte de movimientos: %w", err)
	}
	return Movements(movs, uc.loc), nil
}

// RestockTable reporte de reposición sobre los productos activos.
func (uc *UseCase) RestockTable(ctx context.Context, filter repository.ProductFilter) (*Table, error) {
	filter.IncludeInactive = false
	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("reporte de reposición: %w", err)
	}
	return Restock(products), nil
}
