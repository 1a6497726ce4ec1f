package dto

import "time"

// CreateStockAlertRequest body para POST /api/inventory-alerts/:stockItemId.
type CreateStockAlertRequest struct {
	Threshold int64 `json:"threshold" validate:"min=0"`
	Notified  *bool `json:"notified,omitempty"`
}

// UpdateStockAlertRequest body para PATCH; solo se cambian los campos enviados.
type UpdateStockAlertRequest struct {
	Threshold *int64 `json:"threshold,omitempty" validate:"omitempty,min=0"`
	Notified  *bool  `json:"notified,omitempty"`
}

// StockAlertResponse alerta de stock bajo.
type StockAlertResponse struct {
	StockItemID string    `json:"stock_item_id"`
	Threshold   int64     `json:"threshold"`
	Notified    bool      `json:"notified"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StockAlertListResponse alertas activadas.
type StockAlertListResponse struct {
	Items []StockAlertResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}
