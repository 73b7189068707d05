// Package memory implementa los puertos de repositorio en memoria.
// Respeta las mismas reglas que PostgreSQL (UPDATE condicional de stock, índice parcial de
// notificaciones abiertas). Lo usan los tests de aplicación y de HTTP.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

type allocKey struct{ unitID, productID string }

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu            sync.Mutex
	txMu          sync.Mutex
	products      map[string]*entity.Product
	categories    map[string]*entity.Category
	units         map[string]*entity.Unit
	allocations   map[allocKey]int64
	movements     []*entity.Movement
	profiles      map[string]*entity.Profile
	notifications []*entity.Notification
	now           func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		products:    make(map[string]*entity.Product),
		categories:  make(map[string]*entity.Category),
		units:       make(map[string]*entity.Unit),
		allocations: make(map[allocKey]int64),
		profiles:    make(map[string]*entity.Profile),
		now:         time.Now,
	}
}

// Products repositorio de productos (incluye StockWriter).
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Categories repositorio de categorías.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s: s} }

// Movements ledger en memoria.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s: s} }

// Units repositorio de unidades.
func (s *Store) Units() *UnitRepo { return &UnitRepo{s: s} }

// UnitStock asignaciones de stock por unidad.
func (s *Store) UnitStock() *UnitStockRepo { return &UnitStockRepo{s: s} }

// Profiles repositorio de perfiles.
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s: s} }

// Notifications repositorio de notificaciones.
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s: s} }

// TxRunner runner transaccional en memoria.
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// Stock stock actual del producto (0 si no existe).
func (s *Store) Stock(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		return p.CurrentStock
	}
	return 0
}

// Allocation stock asignado del producto a la unidad.
func (s *Store) Allocation(unitID, productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocations[allocKey{unitID, productID}]
}

// MovementCount cantidad de movimientos registrados.
func (s *Store) MovementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

// ---- productos ----

// ProductRepo implementa repository.ProductRepository y repository.StockWriter.
type ProductRepo struct{ s *Store }

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.StockWriter       = (*ProductRepo)(nil)
)

func (r *ProductRepo) withCategory(p *entity.Product) *entity.Product {
	cp := *p
	if c, ok := r.s.categories[p.CategoryID]; ok {
		cp.CategoryName = c.Name
	}
	return &cp
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if product.CategoryID != "" {
		if _, ok := r.s.categories[product.CategoryID]; !ok {
			return domain.NewValidationError("categoria_id", "categoría inexistente")
		}
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.withCategory(p), nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[product.ID]
	if !ok || !p.Active {
		return domain.ErrNotFound
	}
	p.Name = product.Name
	p.Description = product.Description
	p.CategoryID = product.CategoryID
	p.UnitMeasure = product.UnitMeasure
	p.MinimumStock = product.MinimumStock
	p.UnitPrice = product.UnitPrice
	p.UpdatedAt = product.UpdatedAt
	return nil
}

func (r *ProductRepo) Deactivate(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || !p.Active {
		return domain.ErrNotFound
	}
	p.Active = false
	p.UpdatedAt = r.s.now()
	return nil
}

func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		if !p.Active && !filter.IncludeInactive {
			continue
		}
		if filter.CategoryID != "" && p.CategoryID != filter.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return page(out, filter.Limit, filter.Offset), nil
}

func (r *ProductRepo) IncrementStock(_ context.Context, productID string, qty int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || !p.Active {
		return 0, domain.ErrNotFound
	}
	p.CurrentStock += qty
	p.UpdatedAt = r.s.now()
	return p.CurrentStock, nil
}

func (r *ProductRepo) DecrementStock(_ context.Context, productID string, qty int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || !p.Active {
		return 0, domain.ErrNotFound
	}
	if p.CurrentStock < qty {
		return 0, &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: p.CurrentStock}
	}
	p.CurrentStock -= qty
	p.UpdatedAt = r.s.now()
	return p.CurrentStock, nil
}

// ---- categorías ----

// CategoryRepo implementa repository.CategoryRepository.
type CategoryRepo struct{ s *Store }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if strings.EqualFold(c.Name, category.Name) {
			return domain.ErrDuplicate
		}
	}
	cp := *category
	r.s.categories[category.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CategoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ---- movimientos ----

// MovementRepo implementa repository.MovementRepository.
type MovementRepo struct{ s *Store }

var _ repository.MovementRepository = (*MovementRepo)(nil)

func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[movement.ProductID]; !ok {
		return domain.ErrNotFound
	}
	cp := *movement
	r.s.movements = append(r.s.movements, &cp)
	return nil
}

func (r *MovementRepo) enrich(m *entity.Movement) *entity.Movement {
	cp := *m
	if p, ok := r.s.products[m.ProductID]; ok {
		cp.ProductName = p.Name
		cp.UnitMeasure = p.UnitMeasure
		if c, ok := r.s.categories[p.CategoryID]; ok {
			cp.CategoryName = c.Name
		}
	}
	return &cp
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.movements {
		if m.ID == id {
			return r.enrich(m), nil
		}
	}
	return nil, nil
}

func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Movement, 0, len(r.s.movements))
	for _, m := range r.s.movements {
		switch {
		case filter.ProductID != "" && m.ProductID != filter.ProductID,
			filter.UnitID != "" && m.UnitID != filter.UnitID,
			filter.Kind != "" && m.Kind != filter.Kind,
			filter.From != nil && m.CreatedAt.Before(*filter.From),
			filter.To != nil && m.CreatedAt.After(*filter.To):
			continue
		}
		out = append(out, r.enrich(m))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return page(out, filter.Limit, filter.Offset), nil
}

// ---- unidades ----

// UnitRepo implementa repository.UnitRepository.
type UnitRepo struct{ s *Store }

var _ repository.UnitRepository = (*UnitRepo)(nil)

func (r *UnitRepo) Create(_ context.Context, unit *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *unit
	r.s.units[unit.ID] = &cp
	return nil
}

func (r *UnitRepo) GetByID(_ context.Context, id string) (*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.units[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UnitRepo) Update(_ context.Context, unit *entity.Unit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.units[unit.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *unit
	r.s.units[unit.ID] = &cp
	return nil
}

func (r *UnitRepo) List(_ context.Context) ([]*entity.Unit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Unit, 0, len(r.s.units))
	for _, u := range r.s.units {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// UnitStockRepo implementa repository.UnitStockRepository.
type UnitStockRepo struct{ s *Store }

var _ repository.UnitStockRepository = (*UnitStockRepo)(nil)

func (r *UnitStockRepo) Increment(_ context.Context, unitID, productID string, qty int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := allocKey{unitID, productID}
	r.s.allocations[k] += qty
	return r.s.allocations[k], nil
}

func (r *UnitStockRepo) Decrement(_ context.Context, unitID, productID string, qty int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := allocKey{unitID, productID}
	if r.s.allocations[k] < qty {
		return 0, &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: r.s.allocations[k]}
	}
	r.s.allocations[k] -= qty
	return r.s.allocations[k], nil
}

func (r *UnitStockRepo) Allocated(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum int64
	for k, q := range r.s.allocations {
		if k.productID == productID {
			sum += q
		}
	}
	return sum, nil
}

func (r *UnitStockRepo) ListByUnit(_ context.Context, unitID string) ([]*entity.UnitStock, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.UnitStock, 0)
	for k, q := range r.s.allocations {
		if k.unitID != unitID {
			continue
		}
		p, ok := r.s.products[k.productID]
		if !ok || !p.Active {
			continue
		}
		out = append(out, &entity.UnitStock{
			UnitID:       unitID,
			ProductID:    p.ID,
			ProductName:  p.Name,
			Quantity:     q,
			MinimumStock: p.MinimumStock,
			UpdatedAt:    p.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

// ---- transacciones ----

// TxRunner serializa las transacciones y, si fn falla, restaura stock, asignaciones y ledger
// y descarta los productos creados dentro de la transacción.
type TxRunner struct{ s *Store }

var _ inventory.TxRunner = (*TxRunner)(nil)

func (t *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	stock repository.StockWriter,
	unitStock repository.UnitStockRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	t.s.mu.Lock()
	stocks := make(map[string]int64, len(t.s.products))
	for id, p := range t.s.products {
		stocks[id] = p.CurrentStock
	}
	allocs := make(map[allocKey]int64, len(t.s.allocations))
	for k, q := range t.s.allocations {
		allocs[k] = q
	}
	movs := len(t.s.movements)
	t.s.mu.Unlock()

	if err := fn(t.s.Movements(), t.s.Products(), t.s.UnitStock()); err != nil {
		t.s.mu.Lock()
		for id := range t.s.products {
			if _, ok := stocks[id]; !ok {
				delete(t.s.products, id)
			}
		}
		for id, q := range stocks {
			t.s.products[id].CurrentStock = q
		}
		t.s.allocations = allocs
		t.s.movements = t.s.movements[:movs]
		t.s.mu.Unlock()
		return err
	}
	return nil
}

// ---- perfiles ----

// ProfileRepo implementa repository.ProfileRepository.
type ProfileRepo struct{ s *Store }

var _ repository.ProfileRepository = (*ProfileRepo)(nil)

func (r *ProfileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProfileRepo) Create(_ context.Context, profile *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.profiles[profile.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *profile
	r.s.profiles[profile.ID] = &cp
	return nil
}

func (r *ProfileRepo) List(_ context.Context, filter repository.ProfileFilter) ([]*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]*entity.Profile, 0, len(r.s.profiles))
	for _, p := range r.s.profiles {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Email), search) {
			continue
		}
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		if filter.Role != "" && p.Role != filter.Role {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ProfileRepo) UpdateAccess(_ context.Context, id, role string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.profiles[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Role, p.Active = role, active
	return nil
}

func (r *ProfileRepo) ListActiveByRoles(_ context.Context, roles []string) ([]*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Profile, 0)
	for _, p := range r.s.profiles {
		if !p.Active {
			continue
		}
		for _, role := range roles {
			if p.Role == role {
				cp := *p
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ---- notificaciones ----

// NotificationRepo implementa repository.NotificationRepository.
type NotificationRepo struct{ s *Store }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) hasOpen(key repository.DedupKey) bool {
	for _, n := range r.s.notifications {
		if !n.Read && n.RecipientID == key.RecipientID && n.ProductID == key.ProductID && n.Kind == key.Kind {
			return true
		}
	}
	return false
}

func (r *NotificationRepo) HasOpen(_ context.Context, key repository.DedupKey) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.hasOpen(key), nil
}

func (r *NotificationRepo) CreateIfAbsent(_ context.Context, n *entity.Notification) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ProductID != "" && r.hasOpen(repository.DedupKey{RecipientID: n.RecipientID, ProductID: n.ProductID, Kind: n.Kind}) {
		return false, nil
	}
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return true, nil
}

func (r *NotificationRepo) ListByRecipient(_ context.Context, recipientID string, filter repository.NotificationFilter) ([]*entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Notification, 0)
	for _, n := range r.s.notifications {
		if n.RecipientID != recipientID ||
			(filter.UnreadOnly && n.Read) ||
			(filter.Kind != "" && n.Kind != filter.Kind) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, filter.Limit, 0), nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, recipientID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, recipientID, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			if !n.Read {
				n.Read = true
				n.ReadAt = &at
			}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, recipientID string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var updated int64
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			n.Read = true
			n.ReadAt = &at
			updated++
		}
	}
	return updated, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
