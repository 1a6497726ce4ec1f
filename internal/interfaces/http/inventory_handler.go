package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja el libro de stock y el ajuste masivo (protegido).
type InventoryHandler struct {
	ledger    *inventory.LedgerUseCase
	bulk      *inventory.BulkAdjustUseCase
	movements *inventory.MovementQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, bulk *inventory.BulkAdjustUseCase, movements *inventory.MovementQueryUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, bulk: bulk, movements: movements}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "stock_item_id o product_id/variant_id, change_type, quantity"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	ct, ok := entity.ParseChangeType(in.ChangeType)
	if !ok {
		return writeError(c, fmt.Errorf("%w: tipo de movimiento %q desconocido", domain.ErrInvalidInput, in.ChangeType))
	}
	res, err := h.ledger.RecordMovement(c.Context(), inventory.MovementInput{
		StockItemID: in.StockItemID,
		Ref:         entity.StockItemRef{ProductID: in.ProductID, VariantID: in.VariantID},
		ChangeType:  ct,
		Magnitude:   in.Quantity,
		Reason:      in.Reason,
		SupplierID:  in.SupplierID,
		ActorID:     userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{
		Movement:       toMovementResponse(res.Movement),
		NewQuantity:    res.NewQuantity,
		AlertTriggered: res.AlertTriggered,
	})
}

// BulkAdjust godoc
// @Summary      Ajuste masivo de stock
// @Description  Cada ítem se aplica por separado; los fallos se reportan por ítem sin revertir los demás.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkAdjustRequest  true  "updates[]"
// @Success      200   {object}  dto.BulkAdjustResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/bulk-adjust [post]
func (h *InventoryHandler) BulkAdjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.BulkAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	items := make([]inventory.BulkItem, 0, len(in.Updates))
	for _, u := range in.Updates {
		items = append(items, inventory.BulkItem{
			Ref:        entity.StockItemRef{ProductID: u.ProductID, VariantID: u.VariantID},
			Quantity:   u.Quantity,
			ChangeType: u.ChangeType,
			Reason:     u.Reason,
		})
	}
	res, err := h.bulk.ApplyBatch(c.Context(), inventory.BulkInput{Items: items, SupplierID: in.SupplierID, ActorID: userID})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.BulkAdjustResponse{
		Success: res.Success(),
		Results: dto.BulkAdjustResults{Success: res.Succeeded, Failed: res.Failed, Errors: make([]dto.BulkAdjustError, 0, len(res.Errors))},
	}
	for _, e := range res.Errors {
		msg := e.Err.Error()
		if e.Code == "INTERNAL" {
			msg = "error interno"
		}
		out.Results.Errors = append(out.Results.Errors, dto.BulkAdjustError{
			Index:        e.Index,
			StockItemRef: e.Ref.String(),
			Code:         e.Code,
			Error:        msg,
		})
	}
	return c.JSON(out)
}

// GetItem godoc
// @Summary      Obtener ítem de stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Stock item ID"
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id} [get]
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.ledger.GetStockItem(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockItemResponse{
		ID:          item.ID,
		ProductID:   item.ProductID,
		VariantID:   item.VariantID,
		HasVariants: item.HasVariants,
		Quantity:    item.Quantity,
		UpdatedAt:   item.UpdatedAt,
	})
}

// ListMovements godoc
// @Summary      Libro de movimientos de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "Stock item ID"
// @Param        from    query  string  false  "RFC3339"
// @Param        to      query  string  false  "RFC3339"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err)))
	}
	list, err := h.movements.ListMovements(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{Items: make([]dto.StockMovementResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, m := range list {
		out.Items = append(out.Items, toMovementResponse(m))
	}
	return c.JSON(out)
}

// ExportMovements godoc
// @Summary      Exportar movimientos a Excel
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id    path   string  true   "Stock item ID"
// @Param        from  query  string  false  "RFC3339"
// @Param        to    query  string  false  "RFC3339"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/movements/export [get]
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	id := c.Params("id")
	data, err := h.movements.ExportMovements(c.Context(), id, from, to)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="movimientos_%s.xlsx"`, id))
	return c.Send(data)
}

func dateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	parse := func(key string) (*time.Time, error) {
		raw := c.Query(key)
		if raw == "" {
			return nil, nil
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s debe ser RFC3339", domain.ErrInvalidInput, key)
		}
		return &t, nil
	}
	if from, err = parse("from"); err != nil {
		return nil, nil, err
	}
	if to, err = parse("to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func toMovementResponse(m *entity.StockMovement) dto.StockMovementResponse {
	return dto.StockMovementResponse{
		ID:             m.ID,
		StockItemID:    m.StockItemID,
		ProductID:      m.ProductID,
		VariantID:      m.VariantID,
		ChangeType:     string(m.ChangeType),
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		QuantityChange: m.QuantityChange,
		Reason:         m.Reason,
		SupplierID:     m.SupplierID,
		ActorID:        m.ActorID,
		CreatedAt:      m.CreatedAt,
	}
}
