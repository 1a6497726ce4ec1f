package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertHandler CRUD de alertas de stock bajo.
type AlertHandler struct {
	uc *inventory.AlertUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *inventory.AlertUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener alerta de un ítem
// @Tags         inventory-alerts
// @Security     Bearer
// @Produce      json
// @Param        stockItemId  path  string  true  "Stock item ID"
// @Success      200  {object}  dto.StockAlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-alerts/{stockItemId} [get]
func (h *AlertHandler) Get(c *fiber.Ctx) error {
	a, err := h.uc.Get(c.Context(), c.Params("stockItemId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAlertResponse(a))
}

// Create godoc
// @Summary      Crear alerta de stock bajo
// @Tags         inventory-alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        stockItemId  path  string                       true  "Stock item ID"
// @Param        body         body  dto.CreateStockAlertRequest  true  "threshold"
// @Success      201  {object}  dto.StockAlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory-alerts/{stockItemId} [post]
func (h *AlertHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateStockAlertRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	a, err := h.uc.Create(c.Context(), c.Params("stockItemId"), in.Threshold, in.Notified)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAlertResponse(a))
}

// Update godoc
// @Summary      Actualizar alerta (umbral o notified)
// @Tags         inventory-alerts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        stockItemId  path  string                       true  "Stock item ID"
// @Param        body         body  dto.UpdateStockAlertRequest  true  "threshold, notified"
// @Success      200  {object}  dto.StockAlertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-alerts/{stockItemId} [patch]
func (h *AlertHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateStockAlertRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	a, err := h.uc.Update(c.Context(), c.Params("stockItemId"), in.Threshold, in.Notified)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAlertResponse(a))
}

// Delete godoc
// @Summary      Eliminar alerta
// @Tags         inventory-alerts
// @Security     Bearer
// @Param        stockItemId  path  string  true  "Stock item ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-alerts/{stockItemId} [delete]
func (h *AlertHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("stockItemId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListTriggered godoc
// @Summary      Alertas activadas
// @Tags         inventory-alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 20)"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.StockAlertListResponse
// @Router       /api/inventory-alerts [get]
func (h *AlertHandler) ListTriggered(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err)))
	}
	list, err := h.uc.ListTriggered(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockAlertListResponse{Items: make([]dto.StockAlertResponse, 0, len(list)), Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	for _, a := range list {
		out.Items = append(out.Items, toAlertResponse(a))
	}
	return c.JSON(out)
}

func toAlertResponse(a *entity.StockAlert) dto.StockAlertResponse {
	return dto.StockAlertResponse{
		StockItemID: a.StockItemID,
		Threshold:   a.Threshold,
		Notified:    a.Notified,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
