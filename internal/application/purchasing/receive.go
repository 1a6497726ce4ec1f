package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReceiveUseCase concilia lo recibido de una orden contra lo pedido y repone stock.
type ReceiveUseCase struct {
	txRunner  TxRunner
	orderRepo repository.PurchaseOrderRepository
	ledger    StockLedger
	locker    Locker
	log       zerolog.Logger
	now       func() time.Time
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	ledger StockLedger,
	locker Locker,
	log zerolog.Logger,
) *ReceiveUseCase {
	return &ReceiveUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		ledger:    ledger,
		locker:    locker,
		log:       log.With().Str("component", "purchase_receipts").Logger(),
		now:       time.Now,
	}
}

type receiptLine struct {
	itemID string
	qty    int64
}

// Receive registra cantidades recibidas por línea.
//
// Todas las precondiciones se validan antes de mutar: orden existente (ErrNotFound),
// estado CONFIRMED o SHIPPED (ErrInvalidState), líneas de la orden (ErrNotFound) y
// cantidades dentro de lo pendiente (ErrQuantityExceedsRemaining). Luego cada línea con
// cantidad > 0 se recibe en su propia transacción junto con su movimiento RESTOCK.
// Si todas las líneas quedan completas la orden pasa a RECEIVED.
func (uc *ReceiveUseCase) Receive(ctx context.Context, id, actorID string, in dto.ReceivePurchaseOrderRequest) (*dto.ReceivePurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items requeridos", domain.ErrInvalidInput)
	}

	// ── 1. Una recepción a la vez por orden ──────────────────────────────────
	release, err := uc.locker.Acquire(ctx, "purchase-order:receive:"+id)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.Background()); err != nil {
			uc.log.Warn().Err(err).Str("purchase_order_id", id).Msg("no se pudo liberar el lock de recepción")
		}
	}()

	// ── 2. Precondiciones ────────────────────────────────────────────────────
	po, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	if !po.Receivable() {
		return nil, fmt.Errorf("%w: la orden %s está en %s", domain.ErrInvalidState, po.OrderNumber, po.Status)
	}
	lines, err := planReceipt(po, in.Items)
	if err != nil {
		return nil, err
	}

	// ── 3. Una transacción por línea: guarda + RESTOCK ───────────────────────
	reason := fmt.Sprintf("Purchase order %s received", po.OrderNumber)
	supplierID := po.SupplierID
	updates := make([]dto.StockUpdateResponse, 0, len(lines))
	for _, l := range lines {
		var res *inventory.MovementResult
		err := uc.txRunner.RunReceipt(ctx, func(
			orderRepo repository.PurchaseOrderRepository,
			stockRepo repository.StockItemRepository,
			movRepo repository.StockMovementRepository,
			alertRepo repository.StockAlertRepository,
		) error {
			// La cabecera se bloquea antes que la línea: Cancel y Ship toman el mismo lock de fila
			header, err := orderRepo.GetForUpdate(ctx, po.ID)
			if err != nil {
				return err
			}
			if header == nil {
				return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, po.ID)
			}
			if !header.Receivable() {
				return fmt.Errorf("%w: la orden %s está en %s", domain.ErrInvalidState, header.OrderNumber, header.Status)
			}
			item, err := orderRepo.GetItemForUpdate(ctx, l.itemID)
			if err != nil {
				return err
			}
			if item == nil || item.PurchaseOrderID != po.ID {
				return fmt.Errorf("%w: línea %s", domain.ErrNotFound, l.itemID)
			}
			if l.qty > item.Remaining() {
				return fmt.Errorf("%w: línea %s: pendiente %d, recibido %d", domain.ErrQuantityExceedsRemaining, l.itemID, item.Remaining(), l.qty)
			}
			if err := orderRepo.AddReceived(ctx, item.ID, l.qty); err != nil {
				return fmt.Errorf("línea %s: %w", l.itemID, err)
			}
			res, err = uc.ledger.RecordInTx(ctx, stockRepo, movRepo, alertRepo, item.StockItemID, inventory.MovementInput{
				StockItemID: item.StockItemID,
				Ref:         entity.StockItemRef{ProductID: item.ProductID, VariantID: item.VariantID},
				ChangeType:  entity.ChangeTypeRestock,
				Magnitude:   l.qty,
				Reason:      reason,
				SupplierID:  &supplierID,
				ActorID:     actorID,
			})
			return err
		})
		if err != nil {
			return nil, err
		}
		uc.ledger.ReportCommitted(res)
		m := res.Movement
		updates = append(updates, dto.StockUpdateResponse{
			StockItemID:    m.StockItemID,
			ProductID:      m.ProductID,
			VariantID:      m.VariantID,
			QuantityChange: m.QuantityChange,
			NewStock:       res.NewQuantity,
		})
	}

	// ── 4. Completitud ───────────────────────────────────────────────────────
	err = uc.txRunner.RunPurchasing(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.SequenceRepository) error {
		var err error
		po, err = orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
		}
		if !po.FullyReceived() || !po.CanTransition(entity.POStatusReceived) {
			return nil
		}
		now := uc.now()
		if err := orderRepo.UpdateStatus(ctx, po.ID, entity.POStatusReceived, &now, now); err != nil {
			return err
		}
		po.Status = entity.POStatusReceived
		po.ReceivedDate = &now
		po.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Str("order_number", po.OrderNumber).
		Int("lines", len(updates)).
		Str("status", po.Status).
		Str("actor_id", actorID).
		Msg("recepción de orden de compra registrada")

	return &dto.ReceivePurchaseOrderResponse{
		Success:       true,
		PurchaseOrder: *toPurchaseOrderResponse(po),
		StockUpdates:  updates,
	}, nil
}

// planReceipt agrupa por línea (sumando repetidas) y valida contra lo pendiente.
// Conserva el orden de primera aparición y omite las líneas con cantidad 0.
func planReceipt(po *entity.PurchaseOrder, reqs []dto.ReceiveItemRequest) ([]receiptLine, error) {
	totals := make(map[string]int64, len(reqs))
	order := make([]string, 0, len(reqs))
	for _, r := range reqs {
		item := po.Item(r.ItemID)
		if item == nil {
			return nil, fmt.Errorf("%w: la línea %s no pertenece a la orden %s", domain.ErrNotFound, r.ItemID, po.OrderNumber)
		}
		if r.ReceivedQuantity < 0 {
			return nil, fmt.Errorf("%w: línea %s: received_quantity debe ser no negativa", domain.ErrInvalidInput, r.ItemID)
		}
		if _, seen := totals[r.ItemID]; !seen {
			order = append(order, r.ItemID)
		}
		totals[r.ItemID] += r.ReceivedQuantity
		if totals[r.ItemID] > item.Remaining() {
			return nil, fmt.Errorf("%w: línea %s: pendiente %d, recibido %d",
				domain.ErrQuantityExceedsRemaining, r.ItemID, item.Remaining(), totals[r.ItemID])
		}
	}
	lines := make([]receiptLine, 0, len(order))
	for _, id := range order {
		if totals[id] > 0 {
			lines = append(lines, receiptLine{itemID: id, qty: totals[id]})
		}
	}
	return lines, nil
}
