package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Ventas-api/internal/application/dto"
	"github.com/jhoicas/Ventas-api/internal/application/ledger"
	"github.com/jhoicas/Ventas-api/internal/application/usecase"
	"github.com/jhoicas/Ventas-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Ventas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Ventas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type testServer struct {
	t         *testing.T
	app       *fiber.App
	store     *memory.Store
	companyID string
	primaryID string
	admin     string
}

func newServer(t *testing.T, tx ledger.TxRunner) *testServer {
	t.Helper()
	store := memory.New()
	if tx == nil {
		tx = store
	}
	disp := ledger.NewDispatcher(store, store, store, time.Second, zerolog.Nop())
	svc := ledger.NewService(tx, disp)
	repos := store.Repos()

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Ledger:      svc,
		CompanyUC:   usecase.NewCompanyUseCase(store, store.Companies()),
		WarehouseUC: usecase.NewWarehouseUseCase(store.Warehouses()),
		ProductUC:   usecase.NewProductUseCase(store.Products(), store.Warehouses(), repos.Stock()),
		SettingsUC:  usecase.NewSettingsUseCase(store.Settings(), ledger.DefaultPolicy()),
		QueryUC:     usecase.NewLedgerQueryUseCase(repos),
		JWTSecret:   testJWTSecret,
		JWTIssuer:   testIssuer,
		Log:         zerolog.Nop(),
	})

	s := &testServer{t: t, app: app, store: store}
	var company dto.CompanyResponse
	resp := s.do(http.MethodPost, "/api/companies", "", dto.CreateCompanyRequest{Name: "Tienda Central"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &company)
	s.companyID = company.ID
	s.primaryID = company.PrimaryWarehouseID
	s.admin = s.token(pkgjwt.RoleAdmin)
	t.Cleanup(disp.Wait)
	return s
}

func (s *testServer) token(role string) string {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, s.companyID, role, testIssuer, testExpMin)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) *http.Response {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			r = bytes.NewBufferString(raw)
		} else {
			b, err := json.Marshal(body)
			require.NoError(s.t, err)
			r = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	return resp
}

func (s *testServer) decode(resp *http.Response, dst any) {
	s.t.Helper()
	defer resp.Body.Close()
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(dst))
}

func (s *testServer) expectError(resp *http.Response, status int, code string) {
	s.t.Helper()
	var body dto.ErrorResponse
	assert.Equal(s.t, status, resp.StatusCode)
	s.decode(resp, &body)
	assert.Equal(s.t, code, body.Code)
}

// seed crea un producto y le da stock con una compra a la bodega principal.
func (s *testServer) seed(code, price, qty string) string {
	s.t.Helper()
	var p dto.ProductResponse
	resp := s.do(http.MethodPost, "/api/products", s.admin, dto.CreateProductRequest{
		Code: code, Description: "Producto " + code, Price: decimal.RequireFromString(price),
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &p)

	resp = s.do(http.MethodPost, "/api/purchases", s.admin, dto.CreatePurchaseRequest{
		Supplier: "Proveedor",
		Items:    []dto.PurchaseItemRequest{{Code: code, Quantity: decimal.RequireFromString(qty), UnitCost: decimal.NewFromInt(4)}},
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	return p.ID
}

func saleBody(code, qty string) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerName:  "Ana",
		ExchangeRate:  decimal.NewFromInt(36),
		PaymentMethod: "efectivo",
		Items:         []dto.LineItemRequest{{Code: code, Quantity: decimal.RequireFromString(qty)}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo venta → stock → devolución
// ──────────────────────────────────────────────────────────────────────────────

func TestHTTP_VentaDescuentaStockYSeConsulta(t *testing.T) {
	s := newServer(t, nil)
	pid := s.seed("P1", "10", "10")

	var sale dto.CreateSaleResponse
	resp := s.do(http.MethodPost, "/api/sales", s.token(pkgjwt.RoleSeller), saleBody("P1", "4"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &sale)
	assert.NotEmpty(t, sale.SaleID)
	assert.Empty(t, sale.ReceivableID)
	assert.True(t, sale.TotalUSD.Equal(decimal.NewFromInt(40)))
	assert.True(t, sale.TotalUSDIVA.Equal(decimal.RequireFromString("46.4")))

	var stock dto.ProductStockResponse
	resp = s.do(http.MethodGet, "/api/products/"+pid+"/stock", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &stock)
	assert.True(t, stock.Stock.Equal(decimal.NewFromInt(6)))
	require.Len(t, stock.Allocations, 1)
	assert.Equal(t, s.primaryID, stock.Allocations[0].WarehouseID)
	assert.True(t, stock.Unallocated.IsZero())

	var detail dto.SaleResponse
	resp = s.do(http.MethodGet, "/api/sales/"+sale.SaleID, s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &detail)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, pid, detail.Lines[0].ProductID)
	assert.True(t, detail.Lines[0].UnitPrice.Equal(decimal.NewFromInt(10)))

	var movements []dto.MovementResponse
	resp = s.do(http.MethodGet, "/api/products/"+pid+"/movements", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &movements)
	assert.Len(t, movements, 2)
}

func TestHTTP_DevolucionRespetaTope(t *testing.T) {
	s := newServer(t, nil)
	s.seed("P1", "10", "10")

	var sale dto.CreateSaleResponse
	resp := s.do(http.MethodPost, "/api/sales", s.admin, saleBody("P1", "4"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &sale)

	ret := dto.CreateReturnRequest{
		SaleID:       sale.SaleID,
		CustomerName: "Ana",
		ExchangeRate: decimal.NewFromInt(36),
		Items:        []dto.LineItemRequest{{Code: "P1", Quantity: decimal.NewFromInt(5)}},
	}
	s.expectError(s.do(http.MethodPost, "/api/returns", s.admin, ret), http.StatusConflict, "RETURN_EXCEEDS_SOLD")

	ret.Items[0].Quantity = decimal.NewFromInt(3)
	var out dto.CreateReturnResponse
	resp = s.do(http.MethodPost, "/api/returns", s.admin, ret)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &out)
	assert.True(t, out.TotalForeign.Equal(decimal.NewFromInt(30)))
	assert.True(t, out.TotalLocal.Equal(decimal.NewFromInt(1080)))

	var detail dto.ReturnResponse
	resp = s.do(http.MethodGet, "/api/returns/"+out.ReturnID, s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &detail)
	require.NotNil(t, detail.SaleID)
	assert.Equal(t, sale.SaleID, *detail.SaleID)
}

func TestHTTP_DevolucionesDeshabilitadasPorSettings(t *testing.T) {
	s := newServer(t, nil)
	s.seed("P1", "10", "10")
	off := false

	var settings dto.LedgerSettingsResponse
	resp := s.do(http.MethodPut, "/api/settings/ledger", s.admin, dto.UpdateLedgerSettingsRequest{ReturnsEnabled: &off})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &settings)
	assert.False(t, settings.ReturnsEnabled)

	ret := dto.CreateReturnRequest{
		CustomerName: "Ana",
		ExchangeRate: decimal.NewFromInt(36),
		Items:        []dto.LineItemRequest{{Code: "P1", Quantity: decimal.NewFromInt(1)}},
	}
	s.expectError(s.do(http.MethodPost, "/api/returns", s.admin, ret), http.StatusConflict, "RETURNS_DISABLED")
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslados
// ──────────────────────────────────────────────────────────────────────────────

func TestHTTP_TrasladoYHistorial(t *testing.T) {
	s := newServer(t, nil)
	pid := s.seed("P1", "10", "10")

	var wh dto.WarehouseResponse
	resp := s.do(http.MethodPost, "/api/warehouses", s.admin, dto.CreateWarehouseRequest{Name: "Sucursal"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &wh)

	q := decimal.NewFromInt(4)
	var out dto.TransferResponse
	resp = s.do(http.MethodPost, "/api/inventory/transfers", s.token(pkgjwt.RoleWarehouse), dto.TransferRequest{
		ProductID: pid, ToWarehouseID: wh.ID, Quantity: &q,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &out)
	assert.True(t, out.OK)
	assert.Equal(t, s.primaryID, out.FromWarehouseID)

	var history []dto.TransferRecordResponse
	resp = s.do(http.MethodGet, "/api/inventory/transfers?product_id="+pid, s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s.decode(resp, &history)
	require.Len(t, history, 1)
	assert.True(t, history[0].Quantity.Equal(q))

	s.expectError(s.do(http.MethodPost, "/api/inventory/transfers", s.admin, dto.TransferRequest{
		ProductID: pid, FromWarehouseID: wh.ID, ToWarehouseID: wh.ID,
	}), http.StatusBadRequest, "SAME_WAREHOUSE")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores y autorización
// ──────────────────────────────────────────────────────────────────────────────

func TestHTTP_MapeoDeErrores(t *testing.T) {
	s := newServer(t, nil)
	s.seed("P1", "10", "2")

	s.expectError(s.do(http.MethodPost, "/api/sales", s.admin, saleBody("NOPE", "1")), http.StatusNotFound, "PRODUCT_NOT_FOUND")
	s.expectError(s.do(http.MethodPost, "/api/sales", s.admin, saleBody("P1", "3")), http.StatusConflict, "INSUFFICIENT_STOCK")
	s.expectError(s.do(http.MethodPost, "/api/sales", s.admin, dto.CreateSaleRequest{
		CustomerName: "Ana", ExchangeRate: decimal.NewFromInt(1), PaymentMethod: "efectivo",
	}), http.StatusBadRequest, "EMPTY_CART")
	s.expectError(s.do(http.MethodPost, "/api/sales", s.admin, `{"items": [`), http.StatusBadRequest, "INVALID_BODY")
	s.expectError(s.do(http.MethodPost, "/api/returns", s.admin, dto.CreateReturnRequest{SaleID: "no-es-uuid"}), http.StatusBadRequest, "VALIDATION")
	s.expectError(s.do(http.MethodGet, "/api/sales/00000000-0000-0000-0000-0000000000ff", s.admin, nil), http.StatusNotFound, "SALE_NOT_FOUND")
}

func TestHTTP_Roles(t *testing.T) {
	s := newServer(t, nil)
	seller := s.token(pkgjwt.RoleSeller)

	s.expectError(s.do(http.MethodPost, "/api/purchases", seller, dto.CreatePurchaseRequest{}), http.StatusForbidden, "FORBIDDEN")
	s.expectError(s.do(http.MethodPut, "/api/settings/ledger", seller, dto.UpdateLedgerSettingsRequest{}), http.StatusForbidden, "FORBIDDEN")
	s.expectError(s.do(http.MethodPost, "/api/sales", s.token(pkgjwt.RoleWarehouse), saleBody("P1", "1")), http.StatusForbidden, "FORBIDDEN")
	s.expectError(s.do(http.MethodGet, "/api/products", "", nil), http.StatusUnauthorized, "MISSING_TOKEN")
}

func TestHTTP_AislamientoEntreEmpresas(t *testing.T) {
	s := newServer(t, nil)
	pid := s.seed("P1", "10", "5")

	var sale dto.CreateSaleResponse
	resp := s.do(http.MethodPost, "/api/sales", s.admin, saleBody("P1", "1"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &sale)

	var other dto.CompanyResponse
	resp = s.do(http.MethodPost, "/api/companies", "", dto.CreateCompanyRequest{Name: "Otra"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &other)
	intruder, err := pkgjwt.Generate(testJWTSecret, testUserID, other.ID, pkgjwt.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	s.expectError(s.do(http.MethodGet, "/api/sales/"+sale.SaleID, intruder, nil), http.StatusNotFound, "SALE_NOT_FOUND")
	s.expectError(s.do(http.MethodGet, "/api/products/"+pid, intruder, nil), http.StatusNotFound, "PRODUCT_NOT_FOUND")
	s.expectError(s.do(http.MethodPost, "/api/sales", intruder, saleBody("P1", "1")), http.StatusNotFound, "PRODUCT_NOT_FOUND")
	s.expectError(s.do(http.MethodGet, "/api/companies/"+s.companyID, intruder, nil), http.StatusForbidden, "FORBIDDEN")
}

func TestHTTP_EliminarBodegaYProducto(t *testing.T) {
	s := newServer(t, nil)
	pid := s.seed("P1", "10", "5")

	s.expectError(s.do(http.MethodDelete, "/api/warehouses/"+s.primaryID, s.admin, nil), http.StatusConflict, "WAREHOUSE_HAS_STOCK")
	s.expectError(s.do(http.MethodDelete, "/api/products/"+pid, s.admin, nil), http.StatusConflict, "PRODUCT_REFERENCED")

	var p dto.ProductResponse
	resp := s.do(http.MethodPost, "/api/products", s.admin, dto.CreateProductRequest{Code: "LIBRE", Description: "Sin movimientos"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	s.decode(resp, &p)
	resp = s.do(http.MethodDelete, "/api/products/"+p.ID, s.admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

// failingTx simula una caída de la base de datos.
type failingTx struct{}

func (failingTx) Run(context.Context, func(ledger.Repos) error) error {
	return errors.New("commit transaction: conn closed")
}

func TestHTTP_ErrorInternoNoExponeDetalle(t *testing.T) {
	s := newServer(t, failingTx{})

	resp := s.do(http.MethodPost, "/api/sales", s.admin, saleBody("P1", "1"))
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body dto.ErrorResponse
	s.decode(resp, &body)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "conn closed")
}

func TestHTTP_ListadoAcotaLimit(t *testing.T) {
	s := newServer(t, nil)
	s.seed("P1", "1", "1")

	resp := s.do(http.MethodGet, "/api/products?limit=500&offset=-2", s.admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ProductListResponse
	s.decode(resp, &list)
	assert.Equal(t, dto.PageResponse{Limit: dto.MaxPageLimit, Offset: 0}, list.Page)
	assert.Len(t, list.Items, 1)
}

func TestHTTP_Health(t *testing.T) {
	s := newServer(t, nil)
	resp := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
