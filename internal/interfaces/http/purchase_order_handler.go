package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// PurchaseOrderHandler órdenes de compra y su recepción (protegido).
type PurchaseOrderHandler struct {
	orders  *purchasing.OrderUseCase
	receive *purchasing.ReceiveUseCase
	pdf     *purchasing.PDFUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(orders *purchasing.OrderUseCase, receive *purchasing.ReceiveUseCase, pdf *purchasing.PDFUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orders: orders, receive: receive, pdf: pdf}
}

// Create godoc
// @Summary      Crear orden de compra (DRAFT)
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_id, items"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreatePurchaseOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.orders.CreateOrder(c.Context(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "DRAFT|CONFIRMED|SHIPPED|RECEIVED|CANCELLED"
// @Param        limit   query  int     false  "Límite (default 20)"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.PurchaseOrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %s", domain.ErrInvalidInput, describeValidation(err)))
	}
	out, err := h.orders.List(c.Context(), c.Query("status"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.orders.Get(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ReplaceItems godoc
// @Summary      Reemplazar líneas de una orden en DRAFT
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                                true  "Purchase order ID"
// @Param        body  body  dto.ReplacePurchaseOrderItemsRequest  true  "items"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/items [put]
func (h *PurchaseOrderHandler) ReplaceItems(c *fiber.Ctx) error {
	var in dto.ReplacePurchaseOrderItemsRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.orders.ReplaceDraftItems(c.Context(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Confirmar orden (DRAFT → CONFIRMED)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/confirm [post]
func (h *PurchaseOrderHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.orders.Confirm)
}

// Ship godoc
// @Summary      Marcar orden como enviada (CONFIRMED → SHIPPED)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/ship [post]
func (h *PurchaseOrderHandler) Ship(c *fiber.Ctx) error {
	return h.transition(c, h.orders.Ship)
}

// Cancel godoc
// @Summary      Cancelar orden
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.orders.Cancel)
}

func (h *PurchaseOrderHandler) transition(c *fiber.Ctx, fn func(context.Context, string) (*dto.PurchaseOrderResponse, error)) error {
	out, err := fn(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Recibir mercancía de una orden
// @Description  Valida todas las líneas antes de mutar; cada línea repone stock con un movimiento RESTOCK.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                           true  "Purchase order ID"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  true  "items[]"
// @Success      200  {object}  dto.ReceivePurchaseOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceivePurchaseOrderRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.receive.Receive(c.Context(), c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      Orden de compra en PDF
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "Purchase order ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	data, filename, err := h.pdf.RenderPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s"`, filename))
	return c.Send(data)
}
