package repository

import "context"

// SequenceRepository contador monótono por ámbito (ej. "PO-20261015").
// Next incrementa de forma atómica y devuelve el nuevo valor (1 para un ámbito nuevo).
type SequenceRepository interface {
	Next(ctx context.Context, scope string) (int64, error)
}
