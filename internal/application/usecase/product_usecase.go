package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// initialStockNote observación del movimiento que registra el stock inicial.
const initialStockNote = "Estoque inicial"

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	ledger       *inventory.RegisterMovementUseCase
	policy       stockrules.Policy
	now          func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	ledger *inventory.RegisterMovementUseCase,
	policy stockrules.Policy,
) *ProductUseCase {
	if policy == nil {
		policy = stockrules.RelativePolicy{}
	}
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo, ledger: ledger, policy: policy, now: time.Now}
}

func (uc *ProductUseCase) checkCategory(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.NewValidationError("categoria_id", "categoría inexistente")
	}
	return nil
}

// Create crea el producto y, si InitialStock > 0, su entrada inicial en una sola transacción del ledger.
func (uc *ProductUseCase) Create(ctx context.Context, actorID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("valor_unitario", "no puede ser negativo")
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := uc.now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		CategoryID:   in.CategoryID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		UnitMeasure:  strings.TrimSpace(in.UnitMeasure),
		MinimumStock: in.MinimumStock,
		UnitPrice:    in.UnitPrice,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := uc.ledger.CreateProduct(ctx, product, inventory.MovementInputDTO{
		Quantity:  in.InitialStock,
		UnitPrice: in.UnitPrice,
		Notes:     initialStockNote,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, product.ID)
}

// GetByID obtiene un producto por ID. ErrNotFound si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, uc.policy), nil
}

// Update actualiza datos de catálogo. No permite modificar el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.Active {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.UnitMeasure != nil {
		product.UnitMeasure = strings.TrimSpace(*in.UnitMeasure)
	}
	if in.MinimumStock != nil {
		product.MinimumStock = *in.MinimumStock
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("valor_unitario", "no puede ser negativo")
		}
		product.UnitPrice = in.UnitPrice
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Deactivate baja lógica; el historial de movimientos se conserva.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.repo.Deactivate(ctx, id)
}

// List lista productos activos con filtro de categoría y búsqueda por nombre.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		CategoryID: in.CategoryID,
		Search:     strings.TrimSpace(in.Search),
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, uc.policy))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}
