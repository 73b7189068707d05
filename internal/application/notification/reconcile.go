// Package notification contiene el barrido de reconciliación de alertas de stock
// y los casos de uso de la bandeja de notificaciones.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/estoque-api/internal/domain/access"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	stockrules "github.com/jhoicas/estoque-api/internal/domain/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// Títulos mostrados en la bandeja.
const (
	TitleLowStock  = "Estoque Baixo"
	TitleZeroStock = "Sem Estoque"
)

// StockMessage texto canónico de la alerta; siempre incluye nombre y cantidad actual.
func StockMessage(productName string, qty int64) string {
	return fmt.Sprintf("O produto %s está com apenas %d unidades em estoque.", productName, qty)
}

// KindForBand tipo de notificación según la banda.
func KindForBand(b stockrules.Band) string {
	if b == stockrules.BandZero {
		return entity.NotificationZeroStock
	}
	return entity.NotificationLowStock
}

// ReconcileResult contadores de un barrido.
type ReconcileResult struct {
	Recipients int `json:"recipients"`
	Evaluated  int `json:"evaluated"`
	Alerts     int `json:"alerts"`
	Created    int `json:"created"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

func (r *ReconcileResult) add(o *ReconcileResult) {
	r.Recipients += o.Recipients
	r.Evaluated += o.Evaluated
	r.Alerts += o.Alerts
	r.Created += o.Created
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}

// Reconciler garantiza como máximo una notificación no leída por (destinatario, producto, tipo).
// Se invoca de forma explícita (endpoint o job), nunca desde una lectura.
type Reconciler struct {
	productRepo repository.ProductRepository
	notifRepo   repository.NotificationRepository
	profileRepo repository.ProfileRepository
	policy      stockrules.Policy
	log         zerolog.Logger
	now         func() time.Time
}

// NewReconciler construye el barrido con la política de umbral indicada.
func NewReconciler(
	productRepo repository.ProductRepository,
	notifRepo repository.NotificationRepository,
	profileRepo repository.ProfileRepository,
	policy stockrules.Policy,
	log zerolog.Logger,
) *Reconciler {
	if policy == nil {
		policy = stockrules.RelativePolicy{}
	}
	return &Reconciler{
		productRepo: productRepo,
		notifRepo:   notifRepo,
		profileRepo: profileRepo,
		policy:      policy,
		log:         log.With().Str("component", "notification-reconciler").Logger(),
		now:         time.Now,
	}
}

// ReconcileRecipient ejecuta el barrido para un destinatario. Solo falla si no puede leer
// los productos; los fallos por producto se registran y el barrido continúa.
func (r *Reconciler) ReconcileRecipient(ctx context.Context, recipientID string) (*ReconcileResult, error) {
	alerts, evaluated, err := r.alerts(ctx)
	if err != nil {
		return nil, err
	}
	res := r.reconcile(ctx, recipientID, alerts)
	res.Evaluated = evaluated
	return res, nil
}

// ReconcileAll ejecuta el barrido para todos los perfiles activos con permiso de edición.
func (r *Reconciler) ReconcileAll(ctx context.Context) (*ReconcileResult, error) {
	roles := []string{access.Operador.String(), access.Admin.String(), access.SuperAdmin.String()}
	recipients, err := r.profileRepo.ListActiveByRoles(ctx, roles)
	if err != nil {
		return nil, fmt.Errorf("destinatarios del barrido: %w", err)
	}
	alerts, evaluated, err := r.alerts(ctx)
	if err != nil {
		return nil, err
	}
	total := &ReconcileResult{Evaluated: evaluated}
	for _, p := range recipients {
		total.add(r.reconcile(ctx, p.ID, alerts))
	}
	return total, nil
}

func (r *Reconciler) alerts(ctx context.Context) ([]stockrules.Classified, int, error) {
	products, err := r.productRepo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, 0, fmt.Errorf("productos para el barrido: %w", err)
	}
	classified := stockrules.Evaluate(products, r.policy)
	return stockrules.Alerts(classified), len(classified), nil
}

func (r *Reconciler) reconcile(ctx context.Context, recipientID string, alerts []stockrules.Classified) *ReconcileResult {
	res := &ReconcileResult{Recipients: 1, Alerts: len(alerts)}
	for _, c := range alerts {
		p := c.Product
		key := repository.DedupKey{RecipientID: recipientID, ProductID: p.ID, Kind: KindForBand(c.Band)}
		logEvt := func(e *zerolog.Event) *zerolog.Event {
			return e.Str("recipient_id", recipientID).Str("product_id", p.ID).Str("kind", key.Kind)
		}

		open, err := r.notifRepo.HasOpen(ctx, key)
		if err != nil {
			logEvt(r.log.Error()).Err(err).Msg("consultar notificación abierta")
			res.Failed++
			continue
		}
		if open {
			res.Skipped++
			continue
		}

		n, err := r.build(key, c)
		if err != nil {
			logEvt(r.log.Error()).Err(err).Msg("construir notificación")
			res.Failed++
			continue
		}
		created, err := r.notifRepo.CreateIfAbsent(ctx, n)
		if err != nil {
			logEvt(r.log.Error()).Err(err).Msg("insertar notificación")
			res.Failed++
			continue
		}
		if !created {
			res.Skipped++
			continue
		}
		res.Created++
		logEvt(r.log.Debug()).Msg("notificación de stock creada")
	}
	return res
}

func (r *Reconciler) build(key repository.DedupKey, c stockrules.Classified) (*entity.Notification, error) {
	p := c.Product
	meta, err := json.Marshal(entity.StockAlertMetadata{
		Product: p.Name,
		Current: p.CurrentStock,
		Minimum: p.MinimumStock,
		Unit:    p.UnitMeasure,
	})
	if err != nil {
		return nil, err
	}
	title := TitleLowStock
	if c.Band == stockrules.BandZero {
		title = TitleZeroStock
	}
	return &entity.Notification{
		ID:          uuid.New().String(),
		RecipientID: key.RecipientID,
		ProductID:   key.ProductID,
		Kind:        key.Kind,
		Title:       title,
		Message:     StockMessage(p.Name, p.CurrentStock),
		Metadata:    meta,
		CreatedAt:   r.now(),
	}, nil
}
