package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimentacoes sobre PostgreSQL (usable con pool o tx). Solo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `
	m.id, m.produto_id, COALESCE(m.unidade_id::text, ''), m.tipo_movimentacao, m.quantidade,
	m.valor_unitario, m.valor_total, m.observacoes, m.usuario_id, m.estoque_resultante, m.created_at,
	COALESCE(p.nome, ''), COALESCE(c.nome, ''), COALESCE(p.unidade_medida, '')`

const movementFrom = `
	FROM movimentacoes m
	LEFT JOIN produtos p ON p.id = m.produto_id
	LEFT JOIN categorias c ON c.id = p.categoria_id`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var kind string
	err := row.Scan(
		&m.ID, &m.ProductID, &m.UnitID, &kind, &m.Quantity,
		&m.UnitPrice, &m.TotalValue, &m.Notes, &m.ActorID, &m.StockAfter, &m.CreatedAt,
		&m.ProductName, &m.CategoryName, &m.UnitMeasure,
	)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	return &m, nil
}

// Create persiste un movimiento.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO movimentacoes (id, produto_id, unidade_id, tipo_movimentacao, quantidade, valor_unitario, valor_total, observacoes, usuario_id, estoque_resultante, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.ProductID, nullIfEmpty(movement.UnitID), string(movement.Kind), movement.Quantity,
		movement.UnitPrice, movement.TotalValue, movement.Notes, movement.ActorID, movement.StockAfter,
		movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. nil, nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + movementFrom + ` WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List movimientos más recientes primero. From/To son inclusivos.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	var a argList
	if filter.ProductID != "" {
		a.add("m.produto_id = ?", filter.ProductID)
	}
	if filter.UnitID != "" {
		a.add("m.unidade_id = ?", filter.UnitID)
	}
	if filter.Kind != "" {
		a.add("m.tipo_movimentacao = ?", string(filter.Kind))
	}
	if filter.From != nil {
		a.add("m.created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		a.add("m.created_at <= ?", *filter.To)
	}
	query := `SELECT ` + movementColumns + movementFrom + a.clause() + ` ORDER BY m.created_at DESC, m.id`
	if filter.Limit > 0 {
		query += ` LIMIT ` + a.next(filter.Limit) + ` OFFSET ` + a.next(filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, a.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
