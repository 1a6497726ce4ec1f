package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	POStatusDraft     = "DRAFT"
	POStatusConfirmed = "CONFIRMED"
	POStatusShipped   = "SHIPPED"
	POStatusReceived  = "RECEIVED"
	POStatusCancelled = "CANCELLED"
)

// poTransitions transiciones permitidas: DRAFT → CONFIRMED → SHIPPED → RECEIVED,
// CANCELLED desde cualquier estado no terminal.
var poTransitions = map[string][]string{
	POStatusDraft:     {POStatusConfirmed, POStatusCancelled},
	POStatusConfirmed: {POStatusShipped, POStatusReceived, POStatusCancelled},
	POStatusShipped:   {POStatusReceived, POStatusCancelled},
}

// Escalas de los importes, iguales a las columnas NUMERIC de la base.
const (
	UnitCostScale int32 = 4
	MoneyScale    int32 = 2
)

// ValidPOStatus indica si el string es un estado conocido.
func ValidPOStatus(s string) bool {
	switch s {
	case POStatusDraft, POStatusConfirmed, POStatusShipped, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID           string
	OrderNumber  string
	SupplierID   string
	Status       string
	OrderDate    time.Time
	ExpectedDate *time.Time
	ReceivedDate *time.Time
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Shipping     decimal.Decimal
	Total        decimal.Decimal
	Notes        string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Items        []PurchaseOrderItem
}

// PurchaseOrderItem línea de la orden. ReceivedQuantity es monótona y nunca supera Quantity.
// Position conserva el orden en que el comprador listó las líneas.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	Position         int
	StockItemID      string
	ProductID        string
	VariantID        *string
	Quantity         int64
	ReceivedQuantity int64
	UnitCost         decimal.Decimal
	LineTotal        decimal.Decimal
}

// Remaining cantidad pendiente de recibir.
func (i *PurchaseOrderItem) Remaining() int64 {
	return i.Quantity - i.ReceivedQuantity
}

// FullyReceived indica si la línea se recibió completa.
func (i *PurchaseOrderItem) FullyReceived() bool {
	return i.ReceivedQuantity >= i.Quantity
}

// CanTransition indica si la orden puede pasar al estado destino.
func (po *PurchaseOrder) CanTransition(to string) bool {
	for _, s := range poTransitions[po.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// Receivable indica si la orden acepta recepciones.
func (po *PurchaseOrder) Receivable() bool {
	return po.Status == POStatusConfirmed || po.Status == POStatusShipped
}

// FullyReceived indica si todas las líneas están completas.
func (po *PurchaseOrder) FullyReceived() bool {
	if len(po.Items) == 0 {
		return false
	}
	for i := range po.Items {
		if !po.Items[i].FullyReceived() {
			return false
		}
	}
	return true
}

// Item busca una línea por ID.
func (po *PurchaseOrder) Item(id string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == id {
			return &po.Items[i]
		}
	}
	return nil
}

// RecalculateTotals recalcula LineTotal, Subtotal y Total a partir de las líneas.
// LineTotal se redondea a MoneyScale y Subtotal es la suma de las líneas ya redondeadas.
func (po *PurchaseOrder) RecalculateTotals() {
	subtotal := decimal.Zero
	for i := range po.Items {
		it := &po.Items[i]
		it.LineTotal = it.UnitCost.Mul(decimal.NewFromInt(it.Quantity)).Round(MoneyScale)
		subtotal = subtotal.Add(it.LineTotal)
	}
	po.Subtotal = subtotal
	po.Total = subtotal.Add(po.Tax).Add(po.Shipping)
}
