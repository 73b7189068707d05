package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
)

// CreateMovementRequest entrada para registrar una entrada o salida.
type CreateMovementRequest struct {
	ProductID string              `json:"produto_id" validate:"required,uuid"`
	UnitID    string              `json:"unidade_id" validate:"omitempty,uuid"`
	Kind      entity.MovementKind `json:"tipo_movimentacao" validate:"enum"`
	Quantity  int64               `json:"quantidade" validate:"gt=0"`
	UnitPrice *decimal.Decimal    `json:"valor_unitario"`
	Notes     string              `json:"observacoes" validate:"max=1000"`
}

// AdjustStockRequest ajuste manual; Reason es obligatorio.
type AdjustStockRequest struct {
	UnitID   string              `json:"unidade_id" validate:"omitempty,uuid"`
	Kind     entity.MovementKind `json:"tipo_movimentacao" validate:"enum"`
	Quantity int64               `json:"quantidade" validate:"gt=0"`
	Reason   string              `json:"motivo" validate:"notblank,max=500"`
}

// MovementFilterRequest filtros del ledger. From/To en formato YYYY-MM-DD (día completo).
type MovementFilterRequest struct {
	ProductID string `query:"produto_id"`
	UnitID    string `query:"unidade_id"`
	Kind      string `query:"tipo"`
	From      string `query:"de"`
	To        string `query:"ate"`
	PageRequest
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID           string           `json:"id"`
	ProductID    string           `json:"produto_id"`
	ProductName  string           `json:"produto,omitempty"`
	CategoryName string           `json:"categoria,omitempty"`
	UnitID       string           `json:"unidade_id,omitempty"`
	Kind         string           `json:"tipo_movimentacao"`
	Quantity     int64            `json:"quantidade"`
	UnitPrice    *decimal.Decimal `json:"valor_unitario"`
	TotalValue   *decimal.Decimal `json:"valor_total"`
	Notes        string           `json:"observacoes"`
	ActorID      string           `json:"usuario_id"`
	StockAfter   int64            `json:"estoque_resultante"`
	CreatedAt    time.Time        `json:"created_at"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// MovementSummaryResponse totales de un período.
type MovementSummaryResponse struct {
	EntryCount    int   `json:"total_entradas"`
	ExitCount     int   `json:"total_saidas"`
	EntryQuantity int64 `json:"quantidade_entradas"`
	ExitQuantity  int64 `json:"quantidade_saidas"`
	Net           int64 `json:"saldo"`
}

// DailySummaryResponse totales de un día.
type DailySummaryResponse struct {
	Day string `json:"dia"`
	MovementSummaryResponse
}

// ProductActivityResponse producto con más movimientos.
type ProductActivityResponse struct {
	ProductID     string `json:"produto_id"`
	ProductName   string `json:"produto"`
	MovementCount int    `json:"movimentacoes"`
	Quantity      int64  `json:"quantidade"`
}

// MovementStatsResponse estadísticas calculadas del período.
type MovementStatsResponse struct {
	From     time.Time                 `json:"de"`
	To       time.Time                 `json:"ate"`
	Summary  MovementSummaryResponse   `json:"resumo"`
	Daily    []DailySummaryResponse    `json:"por_dia"`
	TopMoved []ProductActivityResponse `json:"mais_movimentados"`
}
