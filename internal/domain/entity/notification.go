package entity

import (
	"encoding/json"
	"time"
)

// Tipos de notificación.
const (
	NotificationLowStock  = "estoque_baixo"
	NotificationZeroStock = "estoque_zero"
	NotificationMovement  = "movimentacao"
	NotificationSystem    = "sistema"
)

// Notification aviso para un destinatario. Nunca se elimina; solo se marca como leída.
type Notification struct {
	ID          string
	RecipientID string
	ProductID   string // vacío para avisos no ligados a un producto
	Kind        string
	Title       string
	Message     string
	Read        bool
	ReadAt      *time.Time
	Metadata    json.RawMessage
	CreatedAt   time.Time
}

// StockAlertMetadata payload estructurado de las alertas de stock.
type StockAlertMetadata struct {
	Product string `json:"produto"`
	Current int64  `json:"atual"`
	Minimum int64  `json:"minimo"`
	Unit    string `json:"unidade"`
}
