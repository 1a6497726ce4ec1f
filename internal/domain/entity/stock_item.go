package entity

import (
	"fmt"
	"time"
)

// StockItemRef identifica una unidad de inventario: un producto sin variantes o una variante concreta.
type StockItemRef struct {
	ProductID string
	VariantID *string
}

// String devuelve "producto" o "producto/variante", usado en mensajes de error y razones.
func (r StockItemRef) String() string {
	if r.VariantID == nil || *r.VariantID == "" {
		return r.ProductID
	}
	return fmt.Sprintf("%s/%s", r.ProductID, *r.VariantID)
}

// IsVariant indica si la referencia apunta a una variante.
func (r StockItemRef) IsVariant() bool {
	return r.VariantID != nil && *r.VariantID != ""
}

// StockItem representa el stock disponible de un producto o de una de sus variantes.
// Quantity nunca es negativa; solo el libro mayor de stock la modifica.
//
// Un producto con variantes (HasVariants) lleva el stock por variante: la fila a nivel
// de producto no es autoritativa y nunca se muta ni se recalcula como suma.
type StockItem struct {
	ID          string
	ProductID   string
	VariantID   *string
	HasVariants bool
	Quantity    int64
	UpdatedAt   time.Time
}

// Ref devuelve la referencia (producto, variante) del ítem.
func (s *StockItem) Ref() StockItemRef {
	return StockItemRef{ProductID: s.ProductID, VariantID: s.VariantID}
}

// Tracked indica si el ítem admite movimientos de stock.
func (s *StockItem) Tracked() bool {
	return s.VariantID != nil || !s.HasVariants
}
