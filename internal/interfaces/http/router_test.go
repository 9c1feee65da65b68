package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/chemflo-api/internal/application/auth"
	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/application/inventory"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/chemflo-api/internal/interfaces/http"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testAPI struct {
	app   *fiber.App
	token string
}

// newTestAPI levanta la API completa sobre SQLite en memoria y hace login como admin.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := logger.Nop()
	runner := sqlite.NewTxRunner(db)
	authUC := auth.NewAuthUseCase(sqlite.NewUserRepository(db), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}).
		WithBcryptCost(bcrypt.MinCost)
	_, err = authUC.EnsureUser(ctx, testEmail, "admin123", "Administrador")
	require.NoError(t, err)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:     authUC,
		CategoryUC: usecase.NewCategoryUseCase(sqlite.NewCategoryRepository(db)),
		ProductUC:  usecase.NewProductUseCase(runner, sqlite.NewProductRepository(db), log),
		StockUC:    inventory.NewStockUseCase(runner, pdf.NewStockReportGenerator(), log),
		JWTSecret:  testJWTSecret,
		AppName:    "chemflo-test",
		Log:        log,
	})

	api := &testAPI{app: app}
	var login dto.LoginResponse
	resp := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": testEmail, "password": "admin123"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	api.token = login.Token
	return api
}

// do envía body como JSON (si no es nil) y decodifica la respuesta en out (si no es nil).
func (a *testAPI) do(t *testing.T, method, path string, body, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (a *testAPI) createProduct(t *testing.T, name, cas string, initial, threshold int) dto.ProductResponse {
	t.Helper()
	var p dto.ProductResponse
	resp := a.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": name, "casNumber": cas, "unit": "LITRE", "initialStock": initial, "lowStockThreshold": threshold,
	}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return p
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_HealthEsPublico(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""
	var body map[string]string
	resp := api.do(t, http.MethodGet, "/api/health", nil, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_RutasProtegidasSinToken(t *testing.T) {
	api := newTestAPI(t)
	api.token = ""
	for _, path := range []string{"/api/products", "/api/categories", "/api/inventory", "/api/inventory/stats", "/api/auth/profile"} {
		var e dto.ErrorResponse
		resp := api.do(t, http.MethodGet, path, nil, &e)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, apphttp.CodeMissingToken, e.Code, path)
	}
}

func TestRouter_LoginCredencialesInvalidas(t *testing.T) {
	api := newTestAPI(t)
	var e dto.ErrorResponse
	resp := api.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": testEmail, "password": "mala"}, &e)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, e.Code)
}

func TestRouter_Perfil(t *testing.T) {
	api := newTestAPI(t)
	var u dto.UserResponse
	resp := api.do(t, http.MethodGet, "/api/auth/profile", nil, &u)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testEmail, u.Email)
}

func TestRouter_ActualizarStock_EntradaYSalida(t *testing.T) {
	api := newTestAPI(t)
	p := api.createProduct(t, "Acetona", "67-64-1", 500, 10)

	var res dto.StockUpdateResponse
	resp := api.do(t, http.MethodPost, "/api/inventory/"+p.ID+"/stock", map[string]any{"type": "IN", "quantity": 50}, &res)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, res.Inventory.CurrentStock.Equal(dec("550")))
	assert.Equal(t, "IN", res.Movement.Type)

	resp = api.do(t, http.MethodPost, "/api/inventory/"+p.ID+"/stock", map[string]any{"type": "OUT", "quantity": "0.5", "notes": "muestra"}, &res)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, res.Inventory.CurrentStock.Equal(dec("549.5")))
}

func TestRouter_ActualizarStock_Insuficiente(t *testing.T) {
	api := newTestAPI(t)
	p := api.createProduct(t, "Etanol", "64-17-5", 25, 10)

	var e dto.ErrorResponse
	resp := api.do(t, http.MethodPost, "/api/inventory/"+p.ID+"/stock", map[string]any{"type": "OUT", "quantity": 30}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, e.Code)
	assert.Contains(t, e.Message, "25 LITRE")

	var inv dto.InventoryResponse
	api.do(t, http.MethodGet, "/api/inventory/"+p.ID, nil, &inv)
	assert.True(t, inv.CurrentStock.Equal(dec("25")))
}

func TestRouter_ActualizarStock_ErroresDeEntrada(t *testing.T) {
	api := newTestAPI(t)
	p := api.createProduct(t, "Metanol", "67-56-1", 5, 10)

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   string
	}{
		{"tipo", "/api/inventory/" + p.ID + "/stock", map[string]any{"type": "MOVE", "quantity": 1}, http.StatusBadRequest, apphttp.CodeValidation},
		{"cantidad cero", "/api/inventory/" + p.ID + "/stock", map[string]any{"type": "IN", "quantity": 0}, http.StatusBadRequest, apphttp.CodeValidation},
		{"demasiados decimales", "/api/inventory/" + p.ID + "/stock", map[string]any{"type": "IN", "quantity": "0.0001"}, http.StatusBadRequest, apphttp.CodeValidation},
		{"cantidad texto", "/api/inventory/" + p.ID + "/stock", map[string]any{"type": "IN", "quantity": "mucho"}, http.StatusBadRequest, apphttp.CodeInvalidBody},
		{"id inválido", "/api/inventory/abc/stock", map[string]any{"type": "IN", "quantity": 1}, http.StatusBadRequest, apphttp.CodeValidation},
		{"sin producto", "/api/inventory/00000000-0000-0000-0000-0000000000ff/stock", map[string]any{"type": "IN", "quantity": 1}, http.StatusNotFound, apphttp.CodeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var e dto.ErrorResponse
			resp := api.do(t, http.MethodPost, tc.path, tc.body, &e)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, e.Code)
		})
	}
}

func TestRouter_StatsYMovimientos(t *testing.T) {
	api := newTestAPI(t)
	a := api.createProduct(t, "Ácido nítrico", "7697-37-2", 5, 10)
	api.createProduct(t, "Hexano", "110-54-3", 100, 10)
	api.do(t, http.MethodPost, "/api/inventory/"+a.ID+"/stock", map[string]any{"type": "IN", "quantity": 1}, nil)

	var stats dto.DashboardStatsResponse
	resp := api.do(t, http.MethodGet, "/api/inventory/stats", nil, &stats)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.True(t, stats.TotalStockValue.Equal(dec("106")))
	assert.Len(t, stats.RecentMovements, 3)

	var movements dto.MovementListResponse
	resp = api.do(t, http.MethodGet, fmt.Sprintf("/api/inventory/movements?productId=%s&limit=1", a.ID), nil, &movements)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, movements.Pagination.Total)
	assert.Equal(t, 2, movements.Pagination.TotalPages)
	require.Len(t, movements.Movements, 1)
	assert.Equal(t, "IN", movements.Movements[0].Type)

	var list dto.InventoryListResponse
	resp = api.do(t, http.MethodGet, "/api/inventory?lowStockOnly=true", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, list.Pagination.Total)
	require.Len(t, list.Inventories, 1)
	assert.Equal(t, a.ID, list.Inventories[0].ProductID)
	assert.True(t, list.Inventories[0].IsLowStock)

	var rec dto.ReconcileResponse
	resp = api.do(t, http.MethodGet, "/api/inventory/"+a.ID+"/reconcile", nil, &rec)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, rec.Consistent)
}

func TestRouter_ProductosCRUD(t *testing.T) {
	api := newTestAPI(t)

	var cat dto.CategoryResponse
	resp := api.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Solventes", "color": "#123abc"}, &cat)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var p dto.ProductResponse
	resp = api.do(t, http.MethodPost, "/api/products", map[string]any{
		"name": "Tolueno", "casNumber": "108-88-3", "unit": "LITRE", "categoryId": cat.ID,
	}, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Solventes", p.Category.Name)

	var e dto.ErrorResponse
	resp = api.do(t, http.MethodPost, "/api/products", map[string]any{"name": "Otro", "casNumber": "108-88-3", "unit": "KG"}, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeDuplicate, e.Code)

	resp = api.do(t, http.MethodPut, "/api/products/"+p.ID, map[string]any{"categoryId": nil}, &p)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, p.CategoryID)

	var low []dto.ProductResponse
	resp = api.do(t, http.MethodGet, "/api/products/low-stock", nil, &low)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, low, 1, "stock 0 con umbral 10 es stock bajo")

	var page dto.ProductListResponse
	resp = api.do(t, http.MethodGet, "/api/products?search=tolu&sortBy=name&sortOrder=asc", nil, &page)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, page.Pagination.Total)

	resp = api.do(t, http.MethodDelete, "/api/products/"+p.ID, nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = api.do(t, http.MethodGet, "/api/products/"+p.ID, nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNotFound, e.Code)
}

func TestRouter_CategoriasConConteo(t *testing.T) {
	api := newTestAPI(t)
	var cat dto.CategoryResponse
	api.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Ácidos"}, &cat)

	var e dto.ErrorResponse
	resp := api.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Ácidos"}, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Bases", "color": "azul"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeValidation, e.Code)

	raw := api.do(t, http.MethodGet, "/api/categories", nil, nil)
	require.Equal(t, http.StatusOK, raw.StatusCode)
	body, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"_count":{"products":0}`)
}

func TestRouter_ReportePDF(t *testing.T) {
	api := newTestAPI(t)
	api.createProduct(t, "Benceno", "71-43-2", 3, 10)

	resp := api.do(t, http.MethodGet, "/api/inventory/report.pdf", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock-")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}
