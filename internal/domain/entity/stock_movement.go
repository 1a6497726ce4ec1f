package entity

import "time"

// ChangeType tipo de movimiento de stock. La polaridad (entrada/salida) es parte del tipo:
// el llamador entrega solo la magnitud y el signo se deriva aquí.
type ChangeType string

// Tipos de movimiento.
const (
	ChangeTypeSale       ChangeType = "SALE"
	ChangeTypeRefund     ChangeType = "REFUND"
	ChangeTypeRestock    ChangeType = "RESTOCK"
	ChangeTypeAdjustment ChangeType = "ADJUSTMENT"
	ChangeTypeDamage     ChangeType = "DAMAGE"
	ChangeTypeReturn     ChangeType = "RETURN"
	ChangeTypeTransfer   ChangeType = "TRANSFER"
)

// changeTypeSign polaridad por tipo: +1 incrementa, -1 decrementa.
var changeTypeSign = map[ChangeType]int64{
	ChangeTypeRefund:     1,
	ChangeTypeRestock:    1,
	ChangeTypeReturn:     1,
	ChangeTypeSale:       -1,
	ChangeTypeDamage:     -1,
	ChangeTypeAdjustment: -1,
	ChangeTypeTransfer:   -1,
}

// ChangeTypes lista todos los tipos válidos.
func ChangeTypes() []ChangeType {
	return []ChangeType{
		ChangeTypeSale, ChangeTypeRefund, ChangeTypeRestock, ChangeTypeAdjustment,
		ChangeTypeDamage, ChangeTypeReturn, ChangeTypeTransfer,
	}
}

// ParseChangeType valida un string contra el enum.
func ParseChangeType(s string) (ChangeType, bool) {
	ct := ChangeType(s)
	_, ok := changeTypeSign[ct]
	return ct, ok
}

// Valid indica si el tipo pertenece al enum.
func (c ChangeType) Valid() bool {
	_, ok := changeTypeSign[c]
	return ok
}

// Sign devuelve +1 o -1 según la polaridad del tipo (0 si no es válido).
func (c ChangeType) Sign() int64 {
	return changeTypeSign[c]
}

// Delta convierte una magnitud no negativa en el cambio con signo.
func (c ChangeType) Delta(magnitude int64) int64 {
	return c.Sign() * magnitude
}

// StockMovement registro inmutable del libro de stock. Nunca se actualiza ni se borra;
// las correcciones son movimientos compensatorios.
// Invariante: QuantityAfter = QuantityBefore + QuantityChange.
type StockMovement struct {
	ID             string
	StockItemID    string
	ProductID      string
	VariantID      *string
	ChangeType     ChangeType
	QuantityBefore int64
	QuantityAfter  int64
	QuantityChange int64
	Reason         string
	SupplierID     *string
	ActorID        string
	CreatedAt      time.Time
}
