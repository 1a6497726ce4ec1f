package repository

// Límites de paginación comunes a todos los adaptadores.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// PageBounds normaliza limit/offset: limit <= 0 usa DefaultPageSize y
// se recorta a MaxPageSize; offset negativo pasa a 0.
func PageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
