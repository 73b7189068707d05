package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var (
	_ repository.UnitRepository      = (*UnitRepo)(nil)
	_ repository.UnitStockRepository = (*UnitStockRepo)(nil)
)

// UnitRepo implementación del puerto UnitRepository sobre PostgreSQL.
type UnitRepo struct {
	pool *pgxpool.Pool
}

// NewUnitRepository construye el adaptador de persistencia para unidades.
func NewUnitRepository(pool *pgxpool.Pool) *UnitRepo {
	return &UnitRepo{pool: pool}
}

// Create persiste una nueva unidad.
func (r *UnitRepo) Create(ctx context.Context, unit *entity.Unit) error {
	query := `
		INSERT INTO unidades (id, nome, descricao, endereco, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		unit.ID, unit.Name, unit.Description, unit.Address, unit.CreatedAt, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad por ID. nil, nil si no existe.
func (r *UnitRepo) GetByID(ctx context.Context, id string) (*entity.Unit, error) {
	query := `SELECT id, nome, descricao, endereco, created_at, updated_at FROM unidades WHERE id = $1`
	var u entity.Unit
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Description, &u.Address, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit: %w", err)
	}
	return &u, nil
}

// Update actualiza nombre, descripción y dirección.
func (r *UnitRepo) Update(ctx context.Context, unit *entity.Unit) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE unidades SET nome = $2, descricao = $3, endereco = $4, updated_at = $5 WHERE id = $1`,
		unit.ID, unit.Name, unit.Description, unit.Address, unit.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List unidades por nombre.
func (r *UnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, nome, descricao, endereco, created_at, updated_at FROM unidades ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Description, &u.Address, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// UnitStockRepo stock asignado por unidad (produto_unidades). Se usa dentro de la tx del ledger.
type UnitStockRepo struct {
	q Querier
}

// NewUnitStockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitStockRepository(q Querier) *UnitStockRepo {
	return &UnitStockRepo{q: q}
}

// Increment suma qty a la asignación (crea la fila si no existe).
func (r *UnitStockRepo) Increment(ctx context.Context, unitID, productID string, qty int64) (int64, error) {
	var after int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO produto_unidades (unidade_id, produto_id, estoque_local, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (unidade_id, produto_id)
		DO UPDATE SET estoque_local = produto_unidades.estoque_local + EXCLUDED.estoque_local, updated_at = now()
		RETURNING estoque_local`, unitID, productID, qty).Scan(&after)
	if err != nil {
		return 0, fmt.Errorf("increment unit stock: %w", err)
	}
	return after, nil
}

// Decrement resta qty solo si la unidad tiene suficiente.
func (r *UnitStockRepo) Decrement(ctx context.Context, unitID, productID string, qty int64) (int64, error) {
	var after int64
	err := r.q.QueryRow(ctx, `
		UPDATE produto_unidades SET estoque_local = estoque_local - $3, updated_at = now()
		WHERE unidade_id = $1 AND produto_id = $2 AND estoque_local >= $3
		RETURNING estoque_local`, unitID, productID, qty).Scan(&after)
	if err == nil {
		return after, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement unit stock: %w", err)
	}

	var available int64
	err = r.q.QueryRow(ctx,
		`SELECT estoque_local FROM produto_unidades WHERE unidade_id = $1 AND produto_id = $2`,
		unitID, productID).Scan(&available)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("read unit stock: %w", err)
	}
	return 0, &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
}

// Allocated suma del stock asignado a unidades para el producto.
func (r *UnitStockRepo) Allocated(ctx context.Context, productID string) (int64, error) {
	var total int64
	err := r.q.QueryRow(ctx,
		`SELECT COALESCE(SUM(estoque_local), 0) FROM produto_unidades WHERE produto_id = $1`,
		productID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("allocated stock: %w", err)
	}
	return total, nil
}

// ListByUnit stock de cada producto activo asignado a la unidad.
func (r *UnitStockRepo) ListByUnit(ctx context.Context, unitID string) ([]*entity.UnitStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT pu.unidade_id, pu.produto_id, p.nome, pu.estoque_local, p.estoque_minimo, pu.updated_at
		FROM produto_unidades pu
		JOIN produtos p ON p.id = pu.produto_id
		WHERE pu.unidade_id = $1 AND p.ativo
		ORDER BY p.nome`, unitID)
	if err != nil {
		return nil, fmt.Errorf("list unit stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitStock
	for rows.Next() {
		var s entity.UnitStock
		if err := rows.Scan(&s.UnitID, &s.ProductID, &s.ProductName, &s.Quantity, &s.MinimumStock, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
