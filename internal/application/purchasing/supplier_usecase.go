package purchasing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SupplierUseCase lectura y borrado protegido de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	log  zerolog.Logger
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, log zerolog.Logger) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, log: log.With().Str("component", "suppliers").Logger()}
}

// Get obtiene un proveedor.
func (uc *SupplierUseCase) Get(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	return &dto.SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}, nil
}

// Delete elimina el proveedor si ningún movimiento ni orden lo referencia (ErrInvalidState si no).
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, id)
	}
	referenced, err := uc.repo.HasReferences(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: el proveedor %s tiene movimientos u órdenes de compra", domain.ErrInvalidState, id)
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Str("supplier_id", id).Msg("proveedor eliminado")
	return nil
}
