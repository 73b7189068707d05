package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// MovementQueryUseCase lecturas del ledger y estadísticas calculadas al vuelo (no se almacenan).
type MovementQueryUseCase struct {
	movRepo repository.MovementRepository
	loc     *time.Location
	now     func() time.Time
}

// NewMovementQueryUseCase construye el caso de uso. loc define los límites de "día".
func NewMovementQueryUseCase(movRepo repository.MovementRepository, loc *time.Location) *MovementQueryUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &MovementQueryUseCase{movRepo: movRepo, loc: loc, now: time.Now}
}

// PeriodStats estadísticas del ledger en [From, To].
type PeriodStats struct {
	From     time.Time
	To       time.Time
	Summary  stockrules.MovementSummary
	Daily    []stockrules.DailySummary
	TopMoved []stockrules.ProductActivity
}

// List devuelve los movimientos según el filtro (más recientes primero).
func (uc *MovementQueryUseCase) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	return uc.movRepo.List(ctx, filter)
}

// Stats calcula totales, serie diaria y top-N productos más movidos del período.
func (uc *MovementQueryUseCase) Stats(ctx context.Context, from, to time.Time, topN int) (*PeriodStats, error) {
	movs, err := uc.movRepo.List(ctx, repository.MovementFilter{From: &from, To: &to})
	if err != nil {
		return nil, fmt.Errorf("estadísticas de movimientos: %w", err)
	}
	return &PeriodStats{
		From:     from,
		To:       to,
		Summary:  stockrules.SummarizeMovements(movs),
		Daily:    stockrules.SummarizeByDay(movs, uc.loc),
		TopMoved: stockrules.TopMoved(movs, topN),
	}, nil
}

// Today resumen del día en curso (00:00 – 23:59:59.999).
func (uc *MovementQueryUseCase) Today(ctx context.Context) (stockrules.MovementSummary, error) {
	from, to := DayRange(uc.now(), uc.loc)
	movs, err := uc.movRepo.List(ctx, repository.MovementFilter{From: &from, To: &to})
	if err != nil {
		return stockrules.MovementSummary{}, fmt.Errorf("movimientos de hoy: %w", err)
	}
	return stockrules.SummarizeMovements(movs), nil
}

// Latest últimos n movimientos.
func (uc *MovementQueryUseCase) Latest(ctx context.Context, n int) ([]*entity.Movement, error) {
	return uc.movRepo.List(ctx, repository.MovementFilter{Limit: n})
}

// DayRange devuelve el inicio y el fin del día de t en loc.
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// MonthRange devuelve el primer y el último instante del mes de t en loc.
func MonthRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0).Add(-time.Nanosecond)
}
