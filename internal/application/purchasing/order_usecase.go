package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DefaultOrderNumberPrefix prefijo del consecutivo de órdenes (PO-YYYYMMDD-NNNN).
const DefaultOrderNumberPrefix = "PO"

// OrderUseCase creación, consulta y ciclo de vida de órdenes de compra.
type OrderUseCase struct {
	txRunner     TxRunner
	orderRepo    repository.PurchaseOrderRepository
	stockRepo    repository.StockItemRepository
	supplierRepo repository.SupplierRepository
	prefix       string
	log          zerolog.Logger
	now          func() time.Time
}

// NewOrderUseCase construye el caso de uso. prefix vacío usa DefaultOrderNumberPrefix.
func NewOrderUseCase(
	txRunner TxRunner,
	orderRepo repository.PurchaseOrderRepository,
	stockRepo repository.StockItemRepository,
	supplierRepo repository.SupplierRepository,
	prefix string,
	log zerolog.Logger,
) *OrderUseCase {
	if strings.TrimSpace(prefix) == "" {
		prefix = DefaultOrderNumberPrefix
	}
	return &OrderUseCase{
		txRunner:     txRunner,
		orderRepo:    orderRepo,
		stockRepo:    stockRepo,
		supplierRepo: supplierRepo,
		prefix:       prefix,
		log:          log.With().Str("component", "purchase_orders").Logger(),
		now:          time.Now,
	}
}

// CreateOrder valida todo antes de escribir (todo o nada) y guarda la orden en DRAFT
// con un número consecutivo por día.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, actorID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if strings.TrimSpace(actorID) == "" {
		return nil, fmt.Errorf("%w: actor requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.SupplierID) == "" {
		return nil, fmt.Errorf("%w: supplier_id requerido", domain.ErrInvalidInput)
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, in.SupplierID)
	}
	if !supplier.IsActive {
		return nil, fmt.Errorf("%w: el proveedor %s está inactivo", domain.ErrInvalidInput, supplier.ID)
	}
	tax, err := nonNegative("tax", in.Tax)
	if err != nil {
		return nil, err
	}
	shipping, err := nonNegative("shipping", in.Shipping)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		SupplierID:   supplier.ID,
		Status:       entity.POStatusDraft,
		OrderDate:    now,
		ExpectedDate: in.ExpectedDate,
		Tax:          tax,
		Shipping:     shipping,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedBy:    actorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if po.Items, err = uc.buildItems(ctx, po.ID, in.Items); err != nil {
		return nil, err
	}
	po.RecalculateTotals()

	scope := fmt.Sprintf("%s-%s", uc.prefix, now.Format("20060102"))
	err = uc.txRunner.RunPurchasing(ctx, func(orderRepo repository.PurchaseOrderRepository, seqRepo repository.SequenceRepository) error {
		n, err := seqRepo.Next(ctx, scope)
		if err != nil {
			return fmt.Errorf("consecutivo de orden: %w", err)
		}
		po.OrderNumber = fmt.Sprintf("%s-%04d", scope, n)
		return orderRepo.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Str("order_number", po.OrderNumber).
		Str("supplier_id", po.SupplierID).
		Str("total", po.Total.StringFixed(2)).
		Msg("orden de compra creada")
	return toPurchaseOrderResponse(po), nil
}

// ReplaceDraftItems reemplaza las líneas de una orden en DRAFT y recalcula totales.
func (uc *OrderUseCase) ReplaceDraftItems(ctx context.Context, id string, in dto.ReplacePurchaseOrderItemsRequest) (*dto.PurchaseOrderResponse, error) {
	items, err := uc.buildItems(ctx, id, in.Items)
	if err != nil {
		return nil, err
	}
	var po *entity.PurchaseOrder
	err = uc.txRunner.RunPurchasing(ctx, func(orderRepo repository.PurchaseOrderRepository, _ repository.SequenceRepository) error {
		var err error
		po, err = orderRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
		}
		if po.Status != entity.POStatusDraft {
			return fmt.Errorf("%w: la orden %s está en %s, solo se editan órdenes en DRAFT", domain.ErrInvalidState, po.OrderNumber, po.Status)
		}
		po.Items = items
		po.RecalculateTotals()
		po.UpdatedAt = uc.now()
		return orderRepo.ReplaceItems(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// Get obtiene la orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	return toPurchaseOrderResponse(po), nil
}

// List lista órdenes, opcionalmente filtradas por estado, más recientes primero.
func (uc *OrderUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	if status != "" && !entity.ValidPOStatus(status) {
		return nil, fmt.Errorf("%w: estado %q desconocido", domain.ErrInvalidInput, status)
	}
	page.DefaultPage()
	list, err := uc.orderRepo.List(ctx, status, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func (uc *OrderUseCase) buildItems(ctx context.Context, orderID string, reqs []dto.PurchaseOrderItemRequest) ([]entity.PurchaseOrderItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: la orden requiere al menos un ítem", domain.ErrInvalidInput)
	}
	items := make([]entity.PurchaseOrderItem, 0, len(reqs))
	for i, r := range reqs {
		ref := entity.StockItemRef{ProductID: r.ProductID, VariantID: r.VariantID}
		if strings.TrimSpace(r.ProductID) == "" {
			return nil, fmt.Errorf("%w: ítem %d sin product_id", domain.ErrInvalidInput, i)
		}
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("%w: ítem %s: quantity debe ser mayor a cero", domain.ErrInvalidInput, ref)
		}
		if r.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %s: unit_cost no puede ser negativo", domain.ErrInvalidInput, ref)
		}
		if !r.UnitCost.Equal(r.UnitCost.Truncate(entity.UnitCostScale)) {
			return nil, fmt.Errorf("%w: ítem %s: unit_cost admite máximo %d decimales", domain.ErrInvalidInput, ref, entity.UnitCostScale)
		}
		stock, err := uc.stockRepo.GetByRef(ctx, ref)
		if err != nil {
			return nil, err
		}
		if stock == nil {
			return nil, fmt.Errorf("%w: stock item %s", domain.ErrNotFound, ref)
		}
		if !stock.Tracked() {
			return nil, fmt.Errorf("%w: el producto %s lleva stock por variante, indique variant_id", domain.ErrInvalidInput, ref)
		}
		items = append(items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: orderID,
			Position:        i,
			StockItemID:     stock.ID,
			ProductID:       stock.ProductID,
			VariantID:       stock.VariantID,
			Quantity:        r.Quantity,
			UnitCost:        r.UnitCost,
		})
	}
	return items, nil
}

func nonNegative(field string, v *decimal.Decimal) (decimal.Decimal, error) {
	if v == nil {
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s no puede ser negativo", domain.ErrInvalidInput, field)
	}
	if !v.Equal(v.Truncate(entity.MoneyScale)) {
		return decimal.Zero, fmt.Errorf("%w: %s admite máximo %d decimales", domain.ErrInvalidInput, field, entity.MoneyScale)
	}
	return *v, nil
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	out := &dto.PurchaseOrderResponse{
		ID:           po.ID,
		OrderNumber:  po.OrderNumber,
		SupplierID:   po.SupplierID,
		Status:       po.Status,
		OrderDate:    po.OrderDate,
		ExpectedDate: po.ExpectedDate,
		ReceivedDate: po.ReceivedDate,
		Subtotal:     po.Subtotal,
		Tax:          po.Tax,
		Shipping:     po.Shipping,
		Total:        po.Total,
		Notes:        po.Notes,
		CreatedBy:    po.CreatedBy,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		Items:        make([]dto.PurchaseOrderItemResponse, 0, len(po.Items)),
	}
	for _, it := range po.Items {
		out.Items = append(out.Items, dto.PurchaseOrderItemResponse{
			ID:               it.ID,
			StockItemID:      it.StockItemID,
			ProductID:        it.ProductID,
			VariantID:        it.VariantID,
			Quantity:         it.Quantity,
			ReceivedQuantity: it.ReceivedQuantity,
			UnitCost:         it.UnitCost,
			LineTotal:        it.LineTotal,
		})
	}
	return out
}
