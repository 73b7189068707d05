package usecase

import (
	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
)

func toProductResponse(p *entity.Product, policy stockrules.Policy) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	band := stockrules.Classify(p.CurrentStock, p.MinimumStock, policy)
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		UnitMeasure:  p.UnitMeasure,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		UnitPrice:    p.UnitPrice,
		StockValue:   p.StockValue(),
		StockStatus:  string(band),
		Attention:    band == stockrules.BandNormal && stockrules.NeedsAttention(p.CurrentStock, p.MinimumStock),
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

// ToMovementResponse convierte un movimiento del ledger a su salida HTTP.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		ProductID:    m.ProductID,
		ProductName:  m.ProductName,
		CategoryName: m.CategoryName,
		UnitID:       m.UnitID,
		Kind:         string(m.Kind),
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		TotalValue:   m.TotalValue,
		Notes:        m.Notes,
		ActorID:      m.ActorID,
		StockAfter:   m.StockAfter,
		CreatedAt:    m.CreatedAt,
	}
}

func toMovementSummary(s stockrules.MovementSummary) dto.MovementSummaryResponse {
	return dto.MovementSummaryResponse{
		EntryCount:    s.EntryCount,
		ExitCount:     s.ExitCount,
		EntryQuantity: s.EntryQuantity,
		ExitQuantity:  s.ExitQuantity,
		Net:           s.Net,
	}
}

func toProfileResponse(p *entity.Profile, perms access.Permissions) dto.ProfileResponse {
	return dto.ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Role:           perms.Role.String(),
		Active:         p.Active,
		CreatedAt:      p.CreatedAt,
		IsMainAdmin:    perms.IsMainAdmin,
		CanEdit:        perms.CanEdit,
		CanManageUsers: perms.CanManageUsers,
	}
}

func toUnitResponse(u *entity.Unit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:          u.ID,
		Name:        u.Name,
		Description: u.Description,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
