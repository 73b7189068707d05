package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/estoque-api/internal/domain"
	"github.com/jhoicas/estoque-api/internal/domain/entity"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
)

// adjustmentPrefix prefijo de las observaciones de un ajuste manual.
const adjustmentPrefix = "Ajuste de estoque: "

// RegisterMovementUseCase registra entradas y salidas de stock de forma transaccional.
// El stock se modifica con UPDATE condicional (sin lectura previa), por lo que dos salidas
// concurrentes nunca dejan current_stock negativo.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	unitRepo repository.UnitRepository
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, unitRepo repository.UnitRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		unitRepo: unitRepo,
		now:      time.Now,
	}
}

// MovementInputDTO entrada para registrar un movimiento.
// UnitID es opcional: si viene, el movimiento también ajusta el stock asignado a esa unidad.
type MovementInputDTO struct {
	ProductID string
	UnitID    string
	Kind      entity.MovementKind
	Quantity  int64
	UnitPrice *decimal.Decimal
	Notes     string
	ActorID   string
}

// AdjustInputDTO entrada para un ajuste manual de stock.
type AdjustInputDTO struct {
	ProductID string
	UnitID    string
	Kind      entity.MovementKind
	Quantity  int64
	Reason    string
	ActorID   string
}

func validateMovement(in MovementInputDTO) error {
	fields := make(map[string]string)
	if strings.TrimSpace(in.ProductID) == "" {
		fields["product_id"] = "es requerido"
	}
	if !in.Kind.Valid() {
		fields["kind"] = "debe ser entrada o saida"
	}
	if in.Quantity <= 0 {
		fields["quantity"] = "debe ser un entero positivo"
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		fields["unit_price"] = "no puede ser negativo"
	}
	if strings.TrimSpace(in.ActorID) == "" {
		fields["actor_id"] = "es requerido"
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// RecordMovement valida la entrada, abre una transacción, aplica el delta de stock con un
// UPDATE condicional y guarda el movimiento. Devuelve el movimiento creado.
// Si la salida supera el stock, devuelve *domain.InsufficientStockError y no persiste nada.
func (uc *RegisterMovementUseCase) RecordMovement(ctx context.Context, in MovementInputDTO) (*entity.Movement, error) {
	if err := uc.prepare(ctx, in); err != nil {
		return nil, err
	}
	mov := uc.newMovement(in)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stock repository.StockWriter,
		unitStock repository.UnitStockRepository,
	) error {
		return uc.apply(ctx, movRepo, stock, unitStock, in, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// CreateProduct inserta el producto y, si initial.Quantity > 0, su entrada inicial en la misma
// transacción: si el movimiento falla no queda producto creado.
// initial.ProductID y initial.Kind se toman del producto y de entrada.
func (uc *RegisterMovementUseCase) CreateProduct(ctx context.Context, product *entity.Product, initial MovementInputDTO) (*entity.Movement, error) {
	product.CurrentStock = 0
	var mov *entity.Movement
	if initial.Quantity > 0 {
		initial.ProductID = product.ID
		initial.Kind = entity.MovementEntry
		if err := uc.prepare(ctx, initial); err != nil {
			return nil, err
		}
		mov = uc.newMovement(initial)
	}
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stock repository.StockWriter,
		unitStock repository.UnitStockRepository,
	) error {
		if err := stock.Create(ctx, product); err != nil {
			return err
		}
		if mov == nil {
			return nil
		}
		return uc.apply(ctx, movRepo, stock, unitStock, initial, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// prepare valida la entrada y la existencia de la unidad, fuera de la transacción.
func (uc *RegisterMovementUseCase) prepare(ctx context.Context, in MovementInputDTO) error {
	if err := validateMovement(in); err != nil {
		return err
	}
	if in.UnitID == "" {
		return nil
	}
	unit, err := uc.unitRepo.GetByID(ctx, in.UnitID)
	if err != nil {
		return err
	}
	if unit == nil {
		return domain.ErrNotFound
	}
	return nil
}

func (uc *RegisterMovementUseCase) newMovement(in MovementInputDTO) *entity.Movement {
	mov := &entity.Movement{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		UnitID:    in.UnitID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Notes:     strings.TrimSpace(in.Notes),
		ActorID:   in.ActorID,
		CreatedAt: uc.now(),
	}
	if in.UnitPrice != nil {
		total := in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
		mov.TotalValue = &total
	}
	return mov
}

// apply aplica el delta de stock y guarda el movimiento con los repos de la transacción.
func (uc *RegisterMovementUseCase) apply(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stock repository.StockMutator,
	unitStock repository.UnitStockRepository,
	in MovementInputDTO,
	mov *entity.Movement,
) error {
	var (
		after int64
		err   error
	)
	switch in.Kind {
	case entity.MovementEntry:
		after, err = uc.doEntry(ctx, stock, unitStock, in)
	case entity.MovementExit:
		after, err = uc.doExit(ctx, stock, unitStock, in)
	default:
		return domain.ErrInvalidInput
	}
	if err != nil {
		return err
	}
	mov.StockAfter = after
	return movRepo.Create(ctx, mov)
}

// doEntry: suma en products (bloquea la fila) y, si aplica, en la unidad.
func (uc *RegisterMovementUseCase) doEntry(
	ctx context.Context,
	stock repository.StockMutator,
	unitStock repository.UnitStockRepository,
	in MovementInputDTO,
) (int64, error) {
	after, err := stock.IncrementStock(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return 0, err
	}
	if in.UnitID != "" {
		if _, err := unitStock.Increment(ctx, in.UnitID, in.ProductID, in.Quantity); err != nil {
			return 0, err
		}
	}
	return after, nil
}

// doExit: resta en products con la condición current_stock >= qty. El UPDATE sobre products
// va primero para que todos los escritores de stock por unidad se serialicen por esa fila.
// Una salida sin unidad no puede consumir stock asignado a unidades.
func (uc *RegisterMovementUseCase) doExit(
	ctx context.Context,
	stock repository.StockMutator,
	unitStock repository.UnitStockRepository,
	in MovementInputDTO,
) (int64, error) {
	after, err := stock.DecrementStock(ctx, in.ProductID, in.Quantity)
	if err != nil {
		return 0, err
	}
	if in.UnitID != "" {
		if _, err := unitStock.Decrement(ctx, in.UnitID, in.ProductID, in.Quantity); err != nil {
			return 0, err
		}
		return after, nil
	}
	allocated, err := unitStock.Allocated(ctx, in.ProductID)
	if err != nil {
		return 0, err
	}
	if after < allocated {
		available := after + in.Quantity - allocated
		if available < 0 {
			available = 0
		}
		return 0, &domain.InsufficientStockError{
			ProductID: in.ProductID,
			Requested: in.Quantity,
			Available: available,
		}
	}
	return after, nil
}

// AdjustStock registra un ajuste manual como movimiento con observación "Ajuste de estoque: <motivo>".
func (uc *RegisterMovementUseCase) AdjustStock(ctx context.Context, in AdjustInputDTO) (*entity.Movement, error) {
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.NewValidationError("reason", "es requerido")
	}
	return uc.RecordMovement(ctx, MovementInputDTO{
		ProductID: in.ProductID,
		UnitID:    in.UnitID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Notes:     adjustmentPrefix + reason,
		ActorID:   in.ActorID,
	})
}
