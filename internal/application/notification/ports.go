package notification

import "context"

// Event aviso de cambio en notificacoes (insert o update) para un destinatario.
type Event struct {
	ID          string `json:"id"`
	RecipientID string `json:"usuario_id"`
	Kind        string `json:"tipo"`
	Op          string `json:"op"`
}

// Feed canal de cambios en tiempo real. Es best-effort: los clientes vuelven a consultar
// la bandeja al recibir un evento, así que perder uno no rompe nada.
type Feed interface {
	// Listen bloquea hasta que ctx termina o fn devuelve error, entregando solo eventos del destinatario.
	Listen(ctx context.Context, recipientID string, fn func(Event) error) error
}
