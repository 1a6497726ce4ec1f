package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger      *inventory.LedgerUseCase
	BulkAdjust  *inventory.BulkAdjustUseCase
	Movements   *inventory.MovementQueryUseCase
	Alerts      *inventory.AlertUseCase
	Orders      *purchasing.OrderUseCase
	Receive     *purchasing.ReceiveUseCase
	PurchasePDF *purchasing.PDFUseCase
	Suppliers   *purchasing.SupplierUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token;
// las escrituras requieren rol admin o inventory.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	write := RequireRole(RoleAdmin, RoleInventory)

	// Inventory
	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.BulkAdjust, deps.Movements)
	inv.Post("/movements", write, inventoryHandler.RegisterMovement)
	inv.Post("/bulk-adjust", write, inventoryHandler.BulkAdjust)
	inv.Get("/items/:id", inventoryHandler.GetItem)
	inv.Get("/items/:id/movements", inventoryHandler.ListMovements)
	inv.Get("/items/:id/movements/export", inventoryHandler.ExportMovements)

	// Alertas de stock bajo
	alerts := api.Group("/inventory-alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts.Get("/", alertHandler.ListTriggered)
	alerts.Get("/:stockItemId", alertHandler.Get)
	alerts.Post("/:stockItemId", write, alertHandler.Create)
	alerts.Patch("/:stockItemId", write, alertHandler.Update)
	alerts.Delete("/:stockItemId", write, alertHandler.Delete)

	// Purchase orders
	pos := api.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.Orders, deps.Receive, deps.PurchasePDF)
	pos.Post("/", write, poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Put("/:id/items", write, poHandler.ReplaceItems)
	pos.Post("/:id/confirm", write, poHandler.Confirm)
	pos.Post("/:id/ship", write, poHandler.Ship)
	pos.Post("/:id/cancel", write, poHandler.Cancel)
	pos.Post("/:id/receive", write, poHandler.Receive)
	pos.Get("/:id/pdf", poHandler.PDF)

	// Suppliers
	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.Suppliers)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Delete("/:id", write, supplierHandler.Delete)
}
