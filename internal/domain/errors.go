package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los detalles (qué ítem, qué cantidad) se agregan envolviendo con fmt.Errorf("%w: ...").
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrQuantityExceedsRemaining = errors.New("la cantidad recibida excede la pendiente")
	ErrInvalidState             = errors.New("estado inválido para la operación")
	ErrAlreadyExists            = errors.New("el recurso ya existe")
	ErrBatchTooLarge            = errors.New("el lote excede el máximo permitido")
	ErrEmptyBatch               = errors.New("el lote está vacío")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
)

// Code devuelve el código estable de un error de dominio para respuestas y reportes por ítem.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrQuantityExceedsRemaining):
		return "QUANTITY_EXCEEDS_REMAINING"
	case errors.Is(err, ErrInvalidState):
		return "INVALID_STATE"
	case errors.Is(err, ErrAlreadyExists):
		return "ALREADY_EXISTS"
	case errors.Is(err, ErrBatchTooLarge):
		return "BATCH_TOO_LARGE"
	case errors.Is(err, ErrEmptyBatch):
		return "EMPTY_BATCH"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}
