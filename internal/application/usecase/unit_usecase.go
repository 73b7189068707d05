package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// UnitUseCase unidades (sedes) y consulta del stock asignado a cada una.
type UnitUseCase struct {
	repo      repository.UnitRepository
	stockRepo repository.UnitStockRepository
}

// NewUnitUseCase construye el caso de uso.
func NewUnitUseCase(repo repository.UnitRepository, stockRepo repository.UnitStockRepository) *UnitUseCase {
	return &UnitUseCase{repo: repo, stockRepo: stockRepo}
}

// Create crea una unidad.
func (uc *UnitUseCase) Create(ctx context.Context, in dto.UnitRequest) (*dto.UnitResponse, error) {
	now := time.Now()
	u := &entity.Unit{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Address:     strings.TrimSpace(in.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	out := toUnitResponse(u)
	return &out, nil
}

// Update actualiza nombre, descripción y dirección.
func (uc *UnitUseCase) Update(ctx context.Context, id string, in dto.UnitRequest) (*dto.UnitResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	u.Name = strings.TrimSpace(in.Name)
	u.Description = strings.TrimSpace(in.Description)
	u.Address = strings.TrimSpace(in.Address)
	u.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	out := toUnitResponse(u)
	return &out, nil
}

// Get unidad con el stock de cada producto asignado.
func (uc *UnitUseCase) Get(ctx context.Context, id string) (*dto.UnitDetailResponse, error) {
	u, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.stockRepo.ListByUnit(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &dto.UnitDetailResponse{UnitResponse: toUnitResponse(u), Stock: make([]dto.UnitStockResponse, 0, len(stock))}
	for _, s := range stock {
		out.Stock = append(out.Stock, dto.UnitStockResponse{
			ProductID:    s.ProductID,
			ProductName:  s.ProductName,
			Quantity:     s.Quantity,
			MinimumStock: s.MinimumStock,
			UpdatedAt:    s.UpdatedAt,
		})
	}
	return out, nil
}

// List todas las unidades.
func (uc *UnitUseCase) List(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toUnitResponse(u))
	}
	return out, nil
}
