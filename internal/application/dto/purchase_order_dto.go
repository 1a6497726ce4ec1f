package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de una orden de compra.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	VariantID *string         `json:"variant_id,omitempty"`
	Quantity  int64           `json:"quantity" validate:"gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	SupplierID   string                     `json:"supplier_id" validate:"required"`
	ExpectedDate *time.Time                 `json:"expected_date,omitempty"`
	Tax          *decimal.Decimal           `json:"tax,omitempty"`
	Shipping     *decimal.Decimal           `json:"shipping,omitempty"`
	Notes        string                     `json:"notes,omitempty" validate:"max=1000"`
	Items        []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReplacePurchaseOrderItemsRequest body para PUT /api/purchase-orders/:id/items (solo DRAFT).
type ReplacePurchaseOrderItemsRequest struct {
	Items []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReceiveItemRequest cantidad recibida de una línea.
type ReceiveItemRequest struct {
	ItemID           string `json:"item_id" validate:"required"`
	ReceivedQuantity int64  `json:"received_quantity" validate:"min=0"`
}

// ReceivePurchaseOrderRequest body para POST /api/purchase-orders/:id/receive.
type ReceivePurchaseOrderRequest struct {
	Items []ReceiveItemRequest `json:"items" validate:"required,min=1,dive"`
}

// PurchaseOrderItemResponse línea de la orden.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	StockItemID      string          `json:"stock_item_id"`
	ProductID        string          `json:"product_id"`
	VariantID        *string         `json:"variant_id,omitempty"`
	Quantity         int64           `json:"quantity"`
	ReceivedQuantity int64           `json:"received_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// PurchaseOrderResponse orden de compra con sus líneas.
type PurchaseOrderResponse struct {
	ID           string                      `json:"id"`
	OrderNumber  string                      `json:"order_number"`
	SupplierID   string                      `json:"supplier_id"`
	Status       string                      `json:"status"`
	OrderDate    time.Time                   `json:"order_date"`
	ExpectedDate *time.Time                  `json:"expected_date,omitempty"`
	ReceivedDate *time.Time                  `json:"received_date,omitempty"`
	Subtotal     decimal.Decimal             `json:"subtotal"`
	Tax          decimal.Decimal             `json:"tax"`
	Shipping     decimal.Decimal             `json:"shipping"`
	Total        decimal.Decimal             `json:"total"`
	Notes        string                      `json:"notes,omitempty"`
	CreatedBy    string                      `json:"created_by"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
	Items        []PurchaseOrderItemResponse `json:"items"`
}

// PurchaseOrderListResponse lista paginada de órdenes (sin líneas).
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// StockUpdateResponse efecto de una recepción sobre un ítem de stock.
type StockUpdateResponse struct {
	StockItemID    string  `json:"stock_item_id"`
	ProductID      string  `json:"product_id"`
	VariantID      *string `json:"variant_id,omitempty"`
	QuantityChange int64   `json:"quantity_change"`
	NewStock       int64   `json:"new_stock"`
}

// ReceivePurchaseOrderResponse respuesta de la recepción.
type ReceivePurchaseOrderResponse struct {
	Success       bool                  `json:"success"`
	PurchaseOrder PurchaseOrderResponse `json:"purchase_order"`
	StockUpdates  []StockUpdateResponse `json:"stock_updates"`
}

// SupplierResponse proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
