package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

const (
	dashboardLatest = 5
	dashboardAlerts = 5
)

// DashboardUseCase resumen del panel principal; todo se calcula al vuelo.
type DashboardUseCase struct {
	productRepo repository.ProductRepository
	movements   *inventory.MovementQueryUseCase
	policy      stockrules.Policy
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	productRepo repository.ProductRepository,
	movements *inventory.MovementQueryUseCase,
	policy stockrules.Policy,
) *DashboardUseCase {
	if policy == nil {
		policy = stockrules.RelativePolicy{}
	}
	return &DashboardUseCase{productRepo: productRepo, movements: movements, policy: policy}
}

// Get totales del catálogo, resumen de hoy, últimos movimientos y productos en alerta.
// estoque_baixo cuenta todos los productos en alerta (bajo o en cero).
func (uc *DashboardUseCase) Get(ctx context.Context) (*dto.DashboardResponse, error) {
	products, err := uc.productRepo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", err)
	}
	classified := stockrules.Evaluate(products, uc.policy)
	stats := stockrules.Summarize(classified)

	today, err := uc.movements.Today(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := uc.movements.Latest(ctx, dashboardLatest)
	if err != nil {
		return nil, err
	}

	alerts := stockrules.Alerts(classified)
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Product.CurrentStock < alerts[j].Product.CurrentStock
	})
	if len(alerts) > dashboardAlerts {
		alerts = alerts[:dashboardAlerts]
	}

	out := &dto.DashboardResponse{
		TotalProducts:  stats.TotalProducts,
		LowStockCount:  stats.LowCount + stats.ZeroCount,
		ZeroStockCount: stats.ZeroCount,
		AttentionCount: stats.AttentionCount,
		StockValue:     stats.TotalValue,
		Today:          toMovementSummary(today),
		Latest:         make([]dto.MovementResponse, 0, len(latest)),
		Alerts:         make([]dto.ProductResponse, 0, len(alerts)),
		Policy:         uc.policy.Name(),
	}
	for _, m := range latest {
		out.Latest = append(out.Latest, ToMovementResponse(m))
	}
	for _, c := range alerts {
		out.Alerts = append(out.Alerts, *toProductResponse(c.Product, uc.policy))
	}
	return out, nil
}
