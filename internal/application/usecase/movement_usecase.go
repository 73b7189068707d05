package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// dateLayout formato de los filtros de fecha (YYYY-MM-DD).
const dateLayout = "2006-01-02"

// MovementUseCase adapta el ledger y sus consultas a los DTOs HTTP.
type MovementUseCase struct {
	ledger *inventory.RegisterMovementUseCase
	query  *inventory.MovementQueryUseCase
	loc    *time.Location
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(ledger *inventory.RegisterMovementUseCase, query *inventory.MovementQueryUseCase, loc *time.Location) *MovementUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &MovementUseCase{ledger: ledger, query: query, loc: loc}
}

// Register registra una entrada o salida a nombre de actorID.
func (uc *MovementUseCase) Register(ctx context.Context, actorID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	m, err := uc.ledger.RecordMovement(ctx, inventory.MovementInputDTO{
		ProductID: in.ProductID,
		UnitID:    in.UnitID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Notes:     in.Notes,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(m)
	return &out, nil
}

// Adjust ajuste manual de stock del producto.
func (uc *MovementUseCase) Adjust(ctx context.Context, actorID, productID string, in dto.AdjustStockRequest) (*dto.MovementResponse, error) {
	m, err := uc.ledger.AdjustStock(ctx, inventory.AdjustInputDTO{
		ProductID: productID,
		UnitID:    in.UnitID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		ActorID:   actorID,
	})
	if err != nil {
		return nil, err
	}
	out := ToMovementResponse(m)
	return &out, nil
}

// Filter convierte los filtros HTTP en filtro del ledger. To incluye el día completo.
func (uc *MovementUseCase) Filter(in dto.MovementFilterRequest) (repository.MovementFilter, error) {
	f := repository.MovementFilter{
		ProductID: in.ProductID,
		UnitID:    in.UnitID,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.Kind != "" {
		k := entity.MovementKind(in.Kind)
		if !k.Valid() {
			return f, domain.NewValidationError("tipo", "debe ser entrada o saida")
		}
		f.Kind = k
	}
	if in.From != "" {
		d, err := time.ParseInLocation(dateLayout, in.From, uc.loc)
		if err != nil {
			return f, domain.NewValidationError("de", "fecha inválida (YYYY-MM-DD)")
		}
		f.From = &d
	}
	if in.To != "" {
		d, err := time.ParseInLocation(dateLayout, in.To, uc.loc)
		if err != nil {
			return f, domain.NewValidationError("ate", "fecha inválida (YYYY-MM-DD)")
		}
		_, end := inventory.DayRange(d, uc.loc)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, domain.NewValidationError("de", "debe ser anterior a ate")
	}
	return f, nil
}

// List movimientos filtrados, más recientes primero.
func (uc *MovementUseCase) List(ctx context.Context, in dto.MovementFilterRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()
	f, err := uc.Filter(in)
	if err != nil {
		return nil, err
	}
	list, err := uc.query.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}, nil
}

// Stats estadísticas del período [de, ate]; por defecto el mes en curso.
func (uc *MovementUseCase) Stats(ctx context.Context, in dto.MovementFilterRequest, topN int) (*dto.MovementStatsResponse, error) {
	f, err := uc.Filter(in)
	if err != nil {
		return nil, err
	}
	from, to := inventory.MonthRange(time.Now(), uc.loc)
	if f.From != nil {
		from = *f.From
	}
	if f.To != nil {
		to = *f.To
	}
	st, err := uc.query.Stats(ctx, from, to, topN)
	if err != nil {
		return nil, err
	}
	out := &dto.MovementStatsResponse{
		From:     st.From,
		To:       st.To,
		Summary:  toMovementSummary(st.Summary),
		Daily:    make([]dto.DailySummaryResponse, 0, len(st.Daily)),
		TopMoved: make([]dto.ProductActivityResponse, 0, len(st.TopMoved)),
	}
	for _, d := range st.Daily {
		out.Daily = append(out.Daily, dto.DailySummaryResponse{
			Day:                     d.Day.Format(dateLayout),
			MovementSummaryResponse: toMovementSummary(d.MovementSummary),
		})
	}
	for _, a := range st.TopMoved {
		out.TopMoved = append(out.TopMoved, dto.ProductActivityResponse{
			ProductID:     a.ProductID,
			ProductName:   a.ProductName,
			MovementCount: a.MovementCount,
			Quantity:      a.Quantity,
		})
	}
	return out, nil
}
