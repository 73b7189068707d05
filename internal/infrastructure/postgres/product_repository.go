package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.StockWriter       = (*ProductRepo)(nil)
)

// ProductRepo implementación de ProductRepository y StockWriter sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, COALESCE(p.categoria_id::text, ''), COALESCE(c.nome, ''), p.nome, p.descricao, p.unidade_medida,
	p.estoque_atual, p.estoque_minimo, p.valor_unitario, p.ativo, p.created_at, p.updated_at`

const productFrom = `FROM produtos p LEFT JOIN categorias c ON c.id = p.categoria_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Description, &p.UnitMeasure,
		&p.CurrentStock, &p.MinimumStock, &p.UnitPrice, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un nuevo producto (incluye el stock inicial).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO produtos (id, nome, descricao, categoria_id, unidade_medida, estoque_atual, estoque_minimo, valor_unitario, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, nullIfEmpty(product.CategoryID), product.UnitMeasure,
		product.CurrentStock, product.MinimumStock, product.UnitPrice, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("category_id", "categoría inexistente")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID (activo o no). nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` ` + productFrom + ` WHERE p.id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza datos de catálogo. No modifica estoque_atual (se maneja vía movimientos).
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE produtos SET nome = $2, descricao = $3, categoria_id = $4, unidade_medida = $5,
			estoque_minimo = $6, valor_unitario = $7, updated_at = $8
		WHERE id = $1 AND ativo`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, nullIfEmpty(product.CategoryID), product.UnitMeasure,
		product.MinimumStock, product.UnitPrice, product.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewValidationError("category_id", "categoría inexistente")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate baja lógica (ativo=false).
func (r *ProductRepo) Deactivate(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE produtos SET ativo = false, updated_at = now() WHERE id = $1 AND ativo`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos por nombre con filtros de categoría y búsqueda (ILIKE).
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	var a argList
	if !filter.IncludeInactive {
		a.where = append(a.where, "p.ativo")
	}
	if filter.CategoryID != "" {
		a.add("p.categoria_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		a.add("p.nome ILIKE ?", "%"+filter.Search+"%")
	}
	query := `SELECT ` + productColumns + ` ` + productFrom + a.clause() + ` ORDER BY p.nome`
	if filter.Limit > 0 {
		query += ` LIMIT ` + a.next(filter.Limit) + ` OFFSET ` + a.next(filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// IncrementStock suma qty de forma atómica. ErrNotFound si el producto no existe o está inactivo.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID string, qty int64) (int64, error) {
	var after int64
	err := r.q.QueryRow(ctx, `
		UPDATE produtos SET estoque_atual = estoque_atual + $2, updated_at = now()
		WHERE id = $1 AND ativo
		RETURNING estoque_atual`, productID, qty).Scan(&after)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("increment stock: %w", err)
	}
	return after, nil
}

// DecrementStock resta qty solo si estoque_atual >= qty, en un único UPDATE condicional.
// Si no hay fila afectada distingue "no existe" de "no alcanza" leyendo el stock actual.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID string, qty int64) (int64, error) {
	var after int64
	err := r.q.QueryRow(ctx, `
		UPDATE produtos SET estoque_atual = estoque_atual - $2, updated_at = now()
		WHERE id = $1 AND ativo AND estoque_atual >= $2
		RETURNING estoque_atual`, productID, qty).Scan(&after)
	if err == nil {
		return after, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("decrement stock: %w", err)
	}

	var available int64
	err = r.q.QueryRow(ctx, `SELECT estoque_atual FROM produtos WHERE id = $1 AND ativo`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("read stock: %w", err)
	}
	return 0, &domain.InsufficientStockError{ProductID: productID, Requested: qty, Available: available}
}
