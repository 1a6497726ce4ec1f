package entity

import "time"

// Supplier proveedor referenciado por movimientos y órdenes de compra.
type Supplier struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
