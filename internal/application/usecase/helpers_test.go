package usecase_test

import (
	"time"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/application/usecase"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/infrastructure/memory"
)

const actorID = "11111111-1111-1111-1111-111111111111"

var owners = access.Owners{"admin@admin.com"}

type fixture struct {
	store     *memory.Store
	products  *usecase.ProductUseCase
	movements *usecase.MovementUseCase
	dashboard *usecase.DashboardUseCase
	profiles  *usecase.ProfileUseCase
	units     *usecase.UnitUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	ledger := inventory.NewRegisterMovementUseCase(store.TxRunner(), store.Units())
	query := inventory.NewMovementQueryUseCase(store.Movements(), time.UTC)
	policy := stockrules.RelativePolicy{}
	return &fixture{
		store:     store,
		products:  usecase.NewProductUseCase(store.Products(), store.Categories(), ledger, policy),
		movements: usecase.NewMovementUseCase(ledger, query, time.UTC),
		dashboard: usecase.NewDashboardUseCase(store.Products(), query, policy),
		profiles:  usecase.NewProfileUseCase(store.Profiles(), owners),
		units:     usecase.NewUnitUseCase(store.Units(), store.UnitStock()),
	}
}

func ptr[T any](v T) *T { return &v }
