package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const (
	// DefaultBatchMaxItems máximo de ítems por lote si no se configura otro.
	DefaultBatchMaxItems = 100
	// DefaultBulkReason razón registrada cuando el ítem no trae una.
	DefaultBulkReason = "bulk adjustment"
)

// BulkItem una línea del lote. Quantity es nil si el cliente no la envió.
type BulkItem struct {
	Ref        entity.StockItemRef
	Quantity   *decimal.Decimal
	ChangeType string
	Reason     string
}

// BulkInput lote de ajustes.
type BulkInput struct {
	Items      []BulkItem
	SupplierID *string
	ActorID    string
}

// BulkItemError fallo de un ítem, con su posición en el lote.
type BulkItemError struct {
	Index int
	Ref   entity.StockItemRef
	Code  string
	Err   error
}

// BulkResult resumen del lote.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    []BulkItemError
}

// Success es true si ningún ítem falló.
func (r *BulkResult) Success() bool { return r.Failed == 0 }

func (r *BulkResult) fail(idx int, ref entity.StockItemRef, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BulkItemError{Index: idx, Ref: ref, Code: domain.Code(err), Err: err})
}

// BulkAdjustUseCase aplica ajustes de stock multi-ítem. Cada ítem es atómico por sí mismo
// (su propia transacción en el libro); un fallo no revierte a los demás.
type BulkAdjustUseCase struct {
	ledger    *LedgerUseCase
	stockRepo repository.StockItemRepository
	maxItems  int
	log       zerolog.Logger
}

// NewBulkAdjustUseCase construye el orquestador. maxItems <= 0 usa DefaultBatchMaxItems.
func NewBulkAdjustUseCase(
	ledger *LedgerUseCase,
	stockRepo repository.StockItemRepository,
	maxItems int,
	log zerolog.Logger,
) *BulkAdjustUseCase {
	if maxItems <= 0 {
		maxItems = DefaultBatchMaxItems
	}
	return &BulkAdjustUseCase{
		ledger:    ledger,
		stockRepo: stockRepo,
		maxItems:  maxItems,
		log:       log.With().Str("component", "bulk_adjust").Logger(),
	}
}

var maxQuantity = decimal.NewFromInt(math.MaxInt64)

type plannedMovement struct {
	index int
	ref   entity.StockItemRef
	input MovementInput
}

// ApplyBatch valida todo el lote antes de mutar y luego aplica en orden los ítems válidos.
// Errores de llamada completa: ErrEmptyBatch, ErrBatchTooLarge, ErrInvalidInput (actor), ErrNotFound (proveedor).
func (uc *BulkAdjustUseCase) ApplyBatch(ctx context.Context, in BulkInput) (*BulkResult, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyBatch
	}
	if len(in.Items) > uc.maxItems {
		return nil, fmt.Errorf("%w: %d ítems, máximo %d", domain.ErrBatchTooLarge, len(in.Items), uc.maxItems)
	}
	if strings.TrimSpace(in.ActorID) == "" {
		return nil, fmt.Errorf("%w: actor requerido", domain.ErrInvalidInput)
	}
	if err := uc.ledger.checkSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	res := &BulkResult{Errors: []BulkItemError{}}

	// 1. Validación: ningún ítem inválido llega al libro
	plan := make([]plannedMovement, 0, len(in.Items))
	for i, it := range in.Items {
		mi, err := uc.validateItem(ctx, it, in)
		if err != nil {
			if !isDomainErr(err) {
				uc.log.Error().Err(err).Str("stock_item_ref", it.Ref.String()).Msg("fallo de infraestructura validando ítem del lote")
			}
			res.fail(i, it.Ref, err)
			continue
		}
		plan = append(plan, plannedMovement{index: i, ref: it.Ref, input: mi})
	}

	// 2. Aplicación en orden, una transacción por ítem
	for _, p := range plan {
		_, err := uc.ledger.RecordMovement(ctx, p.input)
		if err != nil {
			if !isDomainErr(err) {
				uc.log.Error().Err(err).Str("stock_item_ref", p.ref.String()).Msg("fallo de infraestructura en ítem del lote")
			}
			res.fail(p.index, p.ref, err)
			continue
		}
		res.Succeeded++
	}

	uc.log.Info().
		Int("items", len(in.Items)).
		Int("succeeded", res.Succeeded).
		Int("failed", res.Failed).
		Str("actor_id", in.ActorID).
		Msg("ajuste masivo aplicado")
	return res, nil
}

func (uc *BulkAdjustUseCase) validateItem(ctx context.Context, it BulkItem, in BulkInput) (MovementInput, error) {
	if strings.TrimSpace(it.Ref.ProductID) == "" {
		return MovementInput{}, fmt.Errorf("%w: product_id requerido", domain.ErrInvalidInput)
	}
	ct, ok := entity.ParseChangeType(it.ChangeType)
	if !ok {
		return MovementInput{}, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, it.ChangeType)
	}
	if it.Quantity == nil {
		return MovementInput{}, fmt.Errorf("%w: quantity requerida", domain.ErrInvalidInput)
	}
	if it.Quantity.IsNegative() {
		return MovementInput{}, fmt.Errorf("%w: quantity debe ser no negativa", domain.ErrInvalidInput)
	}
	if !it.Quantity.Equal(it.Quantity.Truncate(0)) {
		return MovementInput{}, fmt.Errorf("%w: quantity debe ser entera", domain.ErrInvalidInput)
	}
	if it.Quantity.GreaterThan(maxQuantity) {
		return MovementInput{}, fmt.Errorf("%w: quantity %s excede el máximo %d", domain.ErrInvalidInput, it.Quantity, int64(math.MaxInt64))
	}
	item, err := uc.stockRepo.GetByRef(ctx, it.Ref)
	if err != nil {
		return MovementInput{}, err
	}
	if item == nil {
		return MovementInput{}, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, it.Ref)
	}
	reason := strings.TrimSpace(it.Reason)
	if reason == "" {
		reason = DefaultBulkReason
	}
	return MovementInput{
		StockItemID: item.ID,
		Ref:         it.Ref,
		ChangeType:  ct,
		Magnitude:   it.Quantity.IntPart(),
		Reason:      reason,
		SupplierID:  in.SupplierID,
		ActorID:     in.ActorID,
	}, nil
}

// isDomainErr indica si el error es de negocio (reportable por ítem) y no de infraestructura.
func isDomainErr(err error) bool {
	c := domain.Code(err)
	return c != "" && c != "INTERNAL"
}
