package dto

import "github.com/shopspring/decimal"

// DashboardResponse resumen del panel principal.
type DashboardResponse struct {
	TotalProducts  int                     `json:"total_produtos"`
	LowStockCount  int                     `json:"estoque_baixo"`
	ZeroStockCount int                     `json:"estoque_zerado"`
	AttentionCount int                     `json:"atencao"`
	StockValue     decimal.Decimal         `json:"valor_total_estoque"`
	Today          MovementSummaryResponse `json:"hoje"`
	Latest         []MovementResponse      `json:"ultimas_movimentacoes"`
	Alerts         []ProductResponse       `json:"produtos_alerta"`
	Policy         string                  `json:"politica_estoque"`
}
