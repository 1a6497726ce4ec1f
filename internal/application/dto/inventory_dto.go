package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Se identifica el ítem por stock_item_id o por (product_id, variant_id).
type RegisterMovementRequest struct {
	StockItemID string  `json:"stock_item_id,omitempty" validate:"omitempty,uuid"`
	ProductID   string  `json:"product_id,omitempty" validate:"required_without=StockItemID"`
	VariantID   *string `json:"variant_id,omitempty"`
	ChangeType  string  `json:"change_type" validate:"required"`
	Quantity    int64   `json:"quantity" validate:"min=0"`
	Reason      string  `json:"reason,omitempty" validate:"max=500"`
	SupplierID  *string `json:"supplier_id,omitempty"`
}

// StockItemResponse ítem de stock.
type StockItemResponse struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	VariantID   *string   `json:"variant_id,omitempty"`
	HasVariants bool      `json:"has_variants"`
	Quantity    int64     `json:"quantity"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockMovementResponse fila del libro de movimientos.
type StockMovementResponse struct {
	ID             string    `json:"id"`
	StockItemID    string    `json:"stock_item_id"`
	ProductID      string    `json:"product_id"`
	VariantID      *string   `json:"variant_id,omitempty"`
	ChangeType     string    `json:"change_type"`
	QuantityBefore int64     `json:"quantity_before"`
	QuantityAfter  int64     `json:"quantity_after"`
	QuantityChange int64     `json:"quantity_change"`
	Reason         string    `json:"reason,omitempty"`
	SupplierID     *string   `json:"supplier_id,omitempty"`
	ActorID        string    `json:"actor_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// RegisterMovementResponse respuesta de un movimiento registrado.
type RegisterMovementResponse struct {
	Movement       StockMovementResponse `json:"movement"`
	NewQuantity    int64                 `json:"new_quantity"`
	AlertTriggered bool                  `json:"alert_triggered"`
}

// MovementListResponse página del libro de un ítem.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// BulkAdjustItem una línea del ajuste masivo. Quantity llega como número JSON;
// se acepta decimal para poder reportar valores no enteros por ítem en vez de rechazar todo el body.
type BulkAdjustItem struct {
	ProductID  string           `json:"product_id"`
	VariantID  *string          `json:"variant_id,omitempty"`
	ChangeType string           `json:"change_type"`
	Quantity   *decimal.Decimal `json:"quantity"`
	Reason     string           `json:"reason,omitempty"`
}

// BulkAdjustRequest body para POST /api/inventory/bulk-adjust.
type BulkAdjustRequest struct {
	Updates    []BulkAdjustItem `json:"updates"`
	SupplierID *string          `json:"supplier_id,omitempty"`
}

// BulkAdjustError fallo de un ítem del lote.
type BulkAdjustError struct {
	Index        int    `json:"index"`
	StockItemRef string `json:"stock_item_ref"`
	Code         string `json:"code"`
	Error        string `json:"error"`
}

// BulkAdjustResults conteos del lote.
type BulkAdjustResults struct {
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []BulkAdjustError `json:"errors"`
}

// BulkAdjustResponse respuesta del ajuste masivo. Success es true solo si ningún ítem falló.
type BulkAdjustResponse struct {
	Success bool              `json:"success"`
	Results BulkAdjustResults `json:"results"`
}
