package purchasing

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// PDFUseCase genera la orden de compra imprimible para enviar al proveedor.
type PDFUseCase struct {
	orderRepo    repository.PurchaseOrderRepository
	supplierRepo repository.SupplierRepository
	generator    PurchaseOrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	orderRepo repository.PurchaseOrderRepository,
	supplierRepo repository.SupplierRepository,
	generator PurchaseOrderPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{orderRepo: orderRepo, supplierRepo: supplierRepo, generator: generator}
}

// RenderPDF devuelve (pdfBytes, filename). ErrNotFound si la orden o su proveedor no existen.
func (uc *PDFUseCase) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	po, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener orden: %w", err)
	}
	if po == nil {
		return nil, "", fmt.Errorf("%w: orden de compra %s", domain.ErrNotFound, id)
	}
	supplier, err := uc.supplierRepo.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, "", fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, po.SupplierID)
	}
	pdfBytes, err := uc.generator.GeneratePurchaseOrderPDF(ctx, po, supplier)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("orden_compra_%s.pdf", po.OrderNumber), nil
}
