package entity

import "time"

// StockAlert umbral de stock bajo por ítem (máximo una por StockItem).
// Notified lo activa el libro de stock al cruzar el umbral; solo un operador lo limpia.
type StockAlert struct {
	StockItemID string
	Threshold   int64
	Notified    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Crossed indica si la cantidad dada está en o por debajo del umbral.
func (a *StockAlert) Crossed(quantity int64) bool {
	return quantity <= a.Threshold
}
