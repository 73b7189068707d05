package dto

import (
	"encoding/json"
	"time"
)

// NotificationFilterRequest filtros de la bandeja.
type NotificationFilterRequest struct {
	UnreadOnly bool   `query:"nao_lidas"`
	Kind       string `query:"tipo" validate:"omitempty,oneof=estoque_baixo estoque_zero movimentacao sistema"`
	Limit      int    `query:"limit" validate:"min=0,max=500"`
}

// NotificationResponse salida de una notificación.
type NotificationResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"produto_id,omitempty"`
	Kind      string          `json:"tipo"`
	Title     string          `json:"titulo"`
	Message   string          `json:"mensagem"`
	Read      bool            `json:"lida"`
	ReadAt    *time.Time      `json:"data_leitura,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NotificationListResponse bandeja con contadores.
type NotificationListResponse struct {
	Items          []NotificationResponse `json:"items"`
	Total          int                    `json:"total"`
	Unread         int                    `json:"nao_lidas"`
	UnreadLowStock int                    `json:"estoque_baixo_nao_lidas"`
}

// UnreadCountResponse contador de la campana.
type UnreadCountResponse struct {
	Unread int `json:"nao_lidas"`
}

// MarkAllReadResponse cantidad marcada.
type MarkAllReadResponse struct {
	Updated int64 `json:"atualizadas"`
}

// ReconcileResponse resultado del barrido de alertas.
type ReconcileResponse struct {
	Recipients int `json:"destinatarios"`
	Evaluated  int `json:"avaliados"`
	Alerts     int `json:"alertas"`
	Created    int `json:"criadas"`
	Skipped    int `json:"ignoradas"`
	Failed     int `json:"falhas"`
}
