package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LedgerUseCase es el libro de stock: el único componente que modifica cantidades disponibles.
// Cada movimiento corre en su propia transacción con bloqueo de fila (SELECT FOR UPDATE)
// y deja exactamente un registro en stock_movements.
type LedgerUseCase struct {
	txRunner     TxRunner
	stockRepo    repository.StockItemRepository
	supplierRepo repository.SupplierRepository
	log          zerolog.Logger
	now          func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	stockRepo repository.StockItemRepository,
	supplierRepo repository.SupplierRepository,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:     txRunner,
		stockRepo:    stockRepo,
		supplierRepo: supplierRepo,
		log:          log.With().Str("component", "ledger").Logger(),
		now:          time.Now,
	}
}

// MovementInput entrada para registrar un movimiento.
// StockItemID tiene prioridad; si está vacío se resuelve por Ref (producto, variante).
// Magnitude es no negativa: el signo lo decide ChangeType.
type MovementInput struct {
	StockItemID string
	Ref         entity.StockItemRef
	ChangeType  entity.ChangeType
	Magnitude   int64
	Reason      string
	SupplierID  *string
	ActorID     string
}

// MovementResult movimiento creado, cantidad resultante y si se activó la alerta.
type MovementResult struct {
	Movement       *entity.StockMovement
	NewQuantity    int64
	AlertTriggered bool
}

func (in MovementInput) validate() error {
	if in.StockItemID == "" && strings.TrimSpace(in.Ref.ProductID) == "" {
		return fmt.Errorf("%w: stock_item requerido", domain.ErrInvalidInput)
	}
	if !in.ChangeType.Valid() {
		return fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, in.ChangeType)
	}
	if in.Magnitude < 0 {
		return fmt.Errorf("%w: la cantidad debe ser no negativa", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.ActorID) == "" {
		return fmt.Errorf("%w: actor requerido", domain.ErrInvalidInput)
	}
	return nil
}

// RecordMovement valida la entrada, abre una transacción y aplica el movimiento.
// Errores: ErrInvalidInput, ErrNotFound (ítem o proveedor), ErrInsufficientStock.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	itemID, err := uc.resolveItemID(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	var res *MovementResult
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockItemRepository,
		movRepo repository.StockMovementRepository,
		alertRepo repository.StockAlertRepository,
	) error {
		var txErr error
		res, txErr = uc.RecordInTx(ctx, stockRepo, movRepo, alertRepo, itemID, in)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	uc.ReportCommitted(res)
	return res, nil
}

// RecordInTx aplica el movimiento usando los repositorios de una transacción abierta por el caller
// (misma transacción que, por ejemplo, la recepción de una línea de orden de compra).
// No valida proveedor: el caller ya lo hizo.
func (uc *LedgerUseCase) RecordInTx(
	ctx context.Context,
	stockRepo repository.StockItemRepository,
	movRepo repository.StockMovementRepository,
	alertRepo repository.StockAlertRepository,
	stockItemID string,
	in MovementInput,
) (*MovementResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	// Bloquea la fila del ítem para serializar movimientos concurrentes sobre el mismo stock
	item, err := stockRepo.GetForUpdate(ctx, stockItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, stockItemID)
	}
	if !item.Tracked() {
		return nil, fmt.Errorf("%w: el producto %s lleva stock por variante, indique variant_id", domain.ErrInvalidInput, item.ProductID)
	}

	change, err := domaininv.ApplyChange(item.Quantity, in.ChangeType, in.Magnitude)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", item.Ref(), err)
	}

	now := uc.now()
	if err := stockRepo.UpdateQuantity(ctx, item.ID, change.After, now); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		StockItemID:    item.ID,
		ProductID:      item.ProductID,
		VariantID:      item.VariantID,
		ChangeType:     in.ChangeType,
		QuantityBefore: change.Before,
		QuantityAfter:  change.After,
		QuantityChange: change.Delta,
		Reason:         in.Reason,
		SupplierID:     in.SupplierID,
		ActorID:        in.ActorID,
		CreatedAt:      now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	// Alerta: se marca al cruzar el umbral; nunca se limpia sola al reponer.
	triggered := false
	alert, err := alertRepo.Get(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if alert != nil && alert.Crossed(change.After) && !alert.Notified {
		alert.Notified = true
		alert.UpdatedAt = now
		if err := alertRepo.Update(ctx, alert); err != nil {
			return nil, err
		}
		triggered = true
	}

	return &MovementResult{Movement: mov, NewQuantity: change.After, AlertTriggered: triggered}, nil
}

// ReportCommitted registra en el log un movimiento ya confirmado.
// Los cruces de umbral salen en nivel warn para el notificador externo.
func (uc *LedgerUseCase) ReportCommitted(res *MovementResult) {
	if res == nil || res.Movement == nil {
		return
	}
	m := res.Movement
	uc.log.Debug().
		Str("stock_item_id", m.StockItemID).
		Str("change_type", string(m.ChangeType)).
		Int64("quantity_change", m.QuantityChange).
		Int64("quantity_after", m.QuantityAfter).
		Str("actor_id", m.ActorID).
		Msg("movimiento registrado")
	if res.AlertTriggered {
		uc.log.Warn().
			Str("stock_item_id", m.StockItemID).
			Str("product_id", m.ProductID).
			Int64("quantity", m.QuantityAfter).
			Msg("umbral de alerta de stock cruzado")
	}
}

// GetStockItem obtiene un ítem por ID (ErrNotFound si no existe).
func (uc *LedgerUseCase) GetStockItem(ctx context.Context, id string) (*entity.StockItem, error) {
	item, err := uc.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, id)
	}
	return item, nil
}

func (uc *LedgerUseCase) resolveItemID(ctx context.Context, in MovementInput) (string, error) {
	if in.StockItemID != "" {
		return in.StockItemID, nil
	}
	item, err := uc.stockRepo.GetByRef(ctx, in.Ref)
	if err != nil {
		return "", err
	}
	if item == nil {
		return "", fmt.Errorf("%w: stock item %s", domain.ErrNotFound, in.Ref)
	}
	return item.ID, nil
}

func (uc *LedgerUseCase) checkSupplier(ctx context.Context, supplierID *string) error {
	if supplierID == nil || *supplierID == "" {
		return nil
	}
	s, err := uc.supplierRepo.GetByID(ctx, *supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, *supplierID)
	}
	return nil
}
