package inventory

import (
	"fmt"
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Change resultado de aplicar un movimiento a una cantidad.
type Change struct {
	Before int64
	Delta  int64
	After  int64
}

// ApplyChange calcula el movimiento (servicio de dominio):
// Delta = Sign(changeType) * magnitud; After = Before + Delta; After nunca negativo.
func ApplyChange(before int64, changeType entity.ChangeType, magnitude int64) (Change, error) {
	if !changeType.Valid() {
		return Change{}, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, changeType)
	}
	if magnitude < 0 {
		return Change{}, fmt.Errorf("%w: la cantidad debe ser no negativa", domain.ErrInvalidInput)
	}
	delta := changeType.Delta(magnitude)
	if delta > 0 && before > math.MaxInt64-delta {
		return Change{}, fmt.Errorf("%w: la cantidad resultante excede el máximo (disponible %d, entrada %d)", domain.ErrInvalidInput, before, magnitude)
	}
	after := before + delta
	if after < 0 {
		return Change{}, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, before, magnitude)
	}
	return Change{Before: before, Delta: delta, After: after}, nil
}
