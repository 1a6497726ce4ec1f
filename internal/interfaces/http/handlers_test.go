package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/purchasing"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/internal/testutil"
)

type api struct {
	t     *testing.T
	app   *fiber.App
	store *testutil.Store
	token string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := testutil.NewStore()
	log := zerolog.Nop()
	ledger := inventory.NewLedgerUseCase(store, store.StockItems(), store.Suppliers(), log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:      ledger,
		BulkAdjust:  inventory.NewBulkAdjustUseCase(ledger, store.StockItems(), 0, log),
		Movements:   inventory.NewMovementQueryUseCase(store.StockItems(), store.Movements(), xlsx.NewMovementExporter()),
		Alerts:      inventory.NewAlertUseCase(store.Alerts(), store.StockItems(), log),
		Orders:      purchasing.NewOrderUseCase(store, store.PurchaseOrders(), store.StockItems(), store.Suppliers(), "", log),
		Receive:     purchasing.NewReceiveUseCase(store, store.PurchaseOrders(), ledger, lock.NewLocalLocker(), log),
		PurchasePDF: purchasing.NewPDFUseCase(store.PurchaseOrders(), store.Suppliers(), pdf.NewMarotoPDFGenerator("Bodega Central")),
		Suppliers:   purchasing.NewSupplierUseCase(store.Suppliers(), log),
		JWTSecret:   testJWTSecret,
	})
	return &api{t: t, app: app, store: store, token: tokenForRole(t, apphttp.RoleInventory)}
}

// do envía la petición y decodifica el JSON de respuesta en out (si no es nil).
func (a *api) do(method, path string, body any, out any) *http.Response {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestBulkAdjust_ReportaFallosPorItem(t *testing.T) {
	a := newAPI(t)
	for _, p := range []string{"a", "b", "d", "e"} {
		a.store.AddStockItem(p, "", 10)
	}
	body := map[string]any{
		"updates": []map[string]any{
			{"product_id": "a", "change_type": "SALE", "quantity": 1},
			{"product_id": "b", "change_type": "RESTOCK", "quantity": 2},
			{"product_id": "c", "change_type": "SALE", "quantity": 1},
			{"product_id": "d", "change_type": "DAMAGE", "quantity": 3},
			{"product_id": "e", "change_type": "RETURN", "quantity": 4},
		},
	}
	var out dto.BulkAdjustResponse
	resp := a.do(http.MethodPost, "/api/inventory/bulk-adjust", body, &out)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Equal(t, 4, out.Results.Success)
	assert.Equal(t, 1, out.Results.Failed)
	require.Len(t, out.Results.Errors, 1)
	assert.Equal(t, "c", out.Results.Errors[0].StockItemRef)
	assert.Equal(t, "NOT_FOUND", out.Results.Errors[0].Code)
	assert.Equal(t, 2, out.Results.Errors[0].Index)
}

func TestBulkAdjust_ErroresDeLlamada(t *testing.T) {
	a := newAPI(t)
	var e dto.ErrorResponse
	resp := a.do(http.MethodPost, "/api/inventory/bulk-adjust", map[string]any{"updates": []any{}}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMPTY_BATCH", e.Code)

	updates := make([]map[string]any, 101)
	for i := range updates {
		updates[i] = map[string]any{"product_id": "a", "change_type": "SALE", "quantity": 1}
	}
	resp = a.do(http.MethodPost, "/api/inventory/bulk-adjust", map[string]any{"updates": updates}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BATCH_TOO_LARGE", e.Code)
}

func TestRegisterMovement_StockInsuficienteEs409(t *testing.T) {
	a := newAPI(t)
	item := a.store.AddStockItem("gorra", "", 2)

	var e dto.ErrorResponse
	resp := a.do(http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_item_id": item.ID, "change_type": "SALE", "quantity": 3,
	}, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)

	var ok dto.RegisterMovementResponse
	resp = a.do(http.MethodPost, "/api/inventory/movements", map[string]any{
		"product_id": "gorra", "change_type": "SALE", "quantity": 2, "reason": "venta mostrador",
	}, &ok)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, int64(0), ok.NewQuantity)
	assert.Equal(t, testUserID, ok.Movement.ActorID)

	resp = a.do(http.MethodPost, "/api/inventory/movements", map[string]any{"change_type": "SALE", "quantity": 1}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestEscrituraRequiereRol(t *testing.T) {
	a := newAPI(t)
	item := a.store.AddStockItem("gorra", "", 2)
	a.token = tokenForRole(t, apphttp.RoleViewer)

	resp := a.do(http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_item_id": item.ID, "change_type": "RESTOCK", "quantity": 1,
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var got dto.StockItemResponse
	resp = a.do(http.MethodGet, "/api/inventory/items/"+item.ID, nil, &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "lectura permitida a viewer")
	assert.Equal(t, int64(2), got.Quantity)
}

func TestItemsYMovimientos(t *testing.T) {
	a := newAPI(t)
	item := a.store.AddStockItem("gorra", "", 5)
	for i := 0; i < 3; i++ {
		a.do(http.MethodPost, "/api/inventory/movements", map[string]any{
			"stock_item_id": item.ID, "change_type": "SALE", "quantity": 1,
		}, nil)
	}

	var page dto.MovementListResponse
	resp := a.do(http.MethodGet, "/api/inventory/items/"+item.ID+"/movements?limit=2", nil, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Page.Limit)

	var e dto.ErrorResponse
	resp = a.do(http.MethodGet, "/api/inventory/items/"+item.ID+"/movements?from=ayer", nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/inventory/items/no-existe", nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)

	resp = a.do(http.MethodGet, "/api/inventory/items/"+item.ID+"/movements/export", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	data, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "xlsx es un zip")
}

func TestAlertas_CRUD(t *testing.T) {
	a := newAPI(t)
	item := a.store.AddStockItem("gorra", "", 15)
	path := "/api/inventory-alerts/" + item.ID

	resp := a.do(http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var alert dto.StockAlertResponse
	resp = a.do(http.MethodPost, path, map[string]any{"threshold": 10}, &alert)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, alert.Notified)

	resp = a.do(http.MethodPost, path, map[string]any{"threshold": 10}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	a.do(http.MethodPost, "/api/inventory/movements", map[string]any{
		"stock_item_id": item.ID, "change_type": "SALE", "quantity": 6,
	}, nil)
	var triggered dto.StockAlertListResponse
	a.do(http.MethodGet, "/api/inventory-alerts", nil, &triggered)
	require.Len(t, triggered.Items, 1)
	assert.True(t, triggered.Items[0].Notified)

	resp = a.do(http.MethodPatch, path, map[string]any{"notified": false}, &alert)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, alert.Notified)

	resp = a.do(http.MethodDelete, path, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = a.do(http.MethodDelete, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOrdenDeCompra_FlujoCompleto(t *testing.T) {
	a := newAPI(t)
	item := a.store.AddStockItem("gorra", "", 0)
	supplier := a.store.AddSupplier("Textiles Andinos")

	var po dto.PurchaseOrderResponse
	resp := a.do(http.MethodPost, "/api/purchase-orders", map[string]any{
		"supplier_id": supplier.ID,
		"tax":         "1.50",
		"items":       []map[string]any{{"product_id": "gorra", "quantity": 5, "unit_cost": "3.25"}},
	}, &po)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "DRAFT", po.Status)
	assert.Equal(t, "17.75", po.Total.StringFixed(2))

	resp = a.do(http.MethodPost, "/api/purchase-orders/"+po.ID+"/receive", map[string]any{
		"items": []map[string]any{{"item_id": po.Items[0].ID, "received_quantity": 1}},
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "DRAFT no admite recepción")

	resp = a.do(http.MethodPost, "/api/purchase-orders/"+po.ID+"/confirm", nil, &po)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var rec dto.ReceivePurchaseOrderResponse
	resp = a.do(http.MethodPost, "/api/purchase-orders/"+po.ID+"/receive", map[string]any{
		"items": []map[string]any{{"item_id": po.Items[0].ID, "received_quantity": 3}},
	}, &rec)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(3), rec.StockUpdates[0].NewStock)

	var e dto.ErrorResponse
	resp = a.do(http.MethodPost, "/api/purchase-orders/"+po.ID+"/receive", map[string]any{
		"items": []map[string]any{{"item_id": po.Items[0].ID, "received_quantity": 3}},
	}, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "QUANTITY_EXCEEDS_REMAINING", e.Code)

	resp = a.do(http.MethodPost, "/api/purchase-orders/"+po.ID+"/receive", map[string]any{
		"items": []map[string]any{{"item_id": po.Items[0].ID, "received_quantity": 2}},
	}, &rec)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "RECEIVED", rec.PurchaseOrder.Status)
	assert.NotNil(t, rec.PurchaseOrder.ReceivedDate)
	assert.Equal(t, int64(5), a.store.Quantity(item.ID))

	var list dto.PurchaseOrderListResponse
	a.do(http.MethodGet, "/api/purchase-orders?status=RECEIVED", nil, &list)
	assert.Len(t, list.Items, 1)

	resp = a.do(http.MethodGet, "/api/purchase-orders/"+po.ID+"/pdf", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = a.do(http.MethodDelete, "/api/suppliers/"+supplier.ID, nil, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "proveedor con órdenes no se borra")
}
