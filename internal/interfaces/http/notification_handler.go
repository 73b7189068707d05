package http

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/application/dto"
	"github.com/jhoicas/estoque-api/internal/application/notification"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/pkg/validator"
)

// streamHeartbeat intervalo de los comentarios keep-alive del stream SSE.
const streamHeartbeat = 25 * time.Second

// NotificationHandler bandeja del usuario actual, barrido de alertas y stream de cambios.
type NotificationHandler struct {
	inbox      *notification.InboxUseCase
	reconciler *notification.Reconciler
	feed       notification.Feed
	log        zerolog.Logger
	bind       binder
	heartbeat  time.Duration
}

// NewNotificationHandler construye el handler. feed puede ser nil: el stream responde 503.
func NewNotificationHandler(
	inbox *notification.InboxUseCase,
	reconciler *notification.Reconciler,
	feed notification.Feed,
	v validator.Validator,
	log zerolog.Logger,
) *NotificationHandler {
	return &NotificationHandler{
		inbox:      inbox,
		reconciler: reconciler,
		feed:       feed,
		log:        log.With().Str("component", "notification-handler").Logger(),
		bind:       binder{v: v},
		heartbeat:  streamHeartbeat,
	}
}

func toNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		ProductID: n.ProductID,
		Kind:      n.Kind,
		Title:     n.Title,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt,
	}
}

// List godoc
// @Summary      Listar notificaciones del usuario
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        nao_lidas  query  bool    false  "Solo no leídas"
// @Param        tipo       query  string  false  "estoque_baixo | estoque_zero | movimentacao | sistema"
// @Param        limit      query  int     false  "Límite"
// @Success      200  {object}  dto.NotificationListResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	var in dto.NotificationFilterRequest
	if err := h.bind.query(c, &in); err != nil {
		return err
	}
	inbox, err := h.inbox.List(c.UserContext(), GetUserID(c), repository.NotificationFilter{
		UnreadOnly: in.UnreadOnly,
		Kind:       in.Kind,
		Limit:      in.Limit,
	})
	if err != nil {
		return err
	}
	out := dto.NotificationListResponse{
		Items:          make([]dto.NotificationResponse, 0, len(inbox.Items)),
		Total:          inbox.Total,
		Unread:         inbox.Unread,
		UnreadLowStock: inbox.UnreadLowStock,
	}
	for _, n := range inbox.Items {
		out.Items = append(out.Items, toNotificationResponse(n))
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Cantidad de notificaciones no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	n, err := h.inbox.UnreadCount(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.UnreadCountResponse{Unread: n})
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Param        id   path  string  true  "ID de la notificación"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.inbox.MarkRead(c.UserContext(), GetUserID(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MarkAllReadResponse
// @Router       /api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	n, err := h.inbox.MarkAllRead(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.MarkAllReadResponse{Updated: n})
}

// Reconcile godoc
// @Summary      Generar alertas de estoque bajo para el usuario
// @Description  Crea como máximo una notificación no leída por producto y tipo. Repetirlo sin cambios no crea nada.
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/notifications/reconcile [post]
func (h *NotificationHandler) Reconcile(c *fiber.Ctx) error {
	res, err := h.reconciler.ReconcileRecipient(c.UserContext(), GetUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.ReconcileResponse{
		Recipients: res.Recipients,
		Evaluated:  res.Evaluated,
		Alerts:     res.Alerts,
		Created:    res.Created,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
	})
}

// Stream godoc
// @Summary      Stream SSE de cambios en notificaciones
// @Description  Emite un evento "notificacao" por cada alta o lectura; el cliente vuelve a consultar la bandeja.
// @Tags         notifications
// @Security     Bearer
// @Produce      text/event-stream
// @Success      200
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	if h.feed == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STREAM_UNAVAILABLE", Message: "stream no disponible"})
	}
	userID := GetUserID(c)
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		// El writer corre después de que el handler retorna: el contexto de la petición ya no sirve.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		var mu sync.Mutex
		send := func(chunk string) error {
			mu.Lock()
			defer mu.Unlock()
			if _, err := w.WriteString(chunk); err != nil {
				return err
			}
			return w.Flush()
		}
		if err := send(": conectado\n\n"); err != nil {
			return
		}

		go func() {
			t := time.NewTicker(h.heartbeat)
			defer t.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-t.C:
					if err := send(": ping\n\n"); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		err := h.feed.Listen(ctx, userID, func(ev notification.Event) error {
			payload, err := json.Marshal(ev)
			if err != nil {
				return err
			}
			return send("event: notificacao\ndata: " + string(payload) + "\n\n")
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			h.log.Warn().Err(err).Str("usuario_id", userID).Msg("stream de notificaciones finalizado")
		}
	})
	return nil
}
