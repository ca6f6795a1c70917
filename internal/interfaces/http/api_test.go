package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-admin/internal/application/auth"
	"github.com/jhoicas/inventario-admin/internal/application/dto"
	"github.com/jhoicas/inventario-admin/internal/application/inventory"
	"github.com/jhoicas/inventario-admin/internal/application/usecase"
	"github.com/jhoicas/inventario-admin/internal/domain/access"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-admin/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/inventario-admin/internal/interfaces/http"
	"github.com/jhoicas/inventario-admin/pkg/logger"
	"github.com/jhoicas/inventario-admin/pkg/password"
)

const testPassword = "secreto123"

type testAPI struct {
	app   *fiber.App
	users map[string]*dto.UserResponse
}

// newTestAPI arma la API completa sobre el store en memoria con tres cuentas: root, admin y staff.
func newTestAPI(t *testing.T, base apphttp.RouterDeps) *testAPI {
	t.Helper()
	store := memory.NewStore()
	hasher := password.NewHasher(bcrypt.MinCost)
	log := logger.Nop()

	userUC := usecase.NewUserUseCase(store, store.Users(), hasher)
	deps := base
	deps.AuthUC = auth.NewAuthUseCase(store.Users(), hasher, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	deps.UserUC = userUC
	deps.StockUC = inventory.NewStockUseCase(store, store.Stocks(), store.Products(), nil, pdf.NewMarotoReportGenerator("Inventario"), log)
	deps.ProductUC = usecase.NewProductUseCase(store, store.Products(), store.Stocks(), store.Categories(), store.Suppliers(), 10)
	deps.CategoryUC = usecase.NewCategoryUseCase(store.Categories())
	deps.SupplierUC = usecase.NewSupplierUseCase(store.Suppliers())
	deps.JWTSecret = testJWTSecret
	deps.Log = log

	app := apphttp.NewApp("inventario-test", log)
	apphttp.Router(app, deps)

	api := &testAPI{app: app, users: map[string]*dto.UserResponse{}}
	for username, role := range map[string]string{"root": "SUPER_ADMIN", "admin": "ADMIN", "staff": "STAFF"} {
		u, err := userUC.Create(context.Background(), access.System(), dto.CreateUserRequest{
			Username: username, Email: username + "@inventori.com", FullName: username, Password: testPassword, Role: role,
		})
		require.NoError(t, err)
		api.users[username] = u
	}
	return api
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, []byte) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func (a *testAPI) login(t *testing.T, username string) string {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: testPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	require.NotEmpty(t, out.Token)
	return out.Token
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	resp, body := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"ok"`)
}

func TestAPI_LoginYMe(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	tok := api.login(t, "admin")

	resp, body := api.do(t, http.MethodGet, "/api/auth/me", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "admin", me.Username)
	assert.Equal(t, "ADMIN", me.Role)
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})

	resp, body := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "admin", Password: "otra"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	resp, body = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestAPI_ActualizarPerfil(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	tok := api.login(t, "staff")
	name := "Staff Renombrado"

	resp, body := api.do(t, http.MethodPut, "/api/auth/profile", tok, dto.ProfileUpdateRequest{FullName: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var u dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &u))
	assert.Equal(t, name, u.FullName)
}

// ──────────────────────────────────────────────────────────────────────────────
// Users: jerarquía de roles a través de HTTP
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Users_StaffSinAcceso(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	resp, body := api.do(t, http.MethodGet, "/api/users", api.login(t, "staff"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))
}

func TestAPI_Users_AdminCreaStaffPeroNoAdmin(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	tok := api.login(t, "admin")

	resp, body := api.do(t, http.MethodPost, "/api/users", tok, dto.CreateUserRequest{
		Username: "luis", Email: "luis@inventori.com", FullName: "Luis", Password: testPassword, Role: "STAFF",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodPost, "/api/users", tok, dto.CreateUserRequest{
		Username: "maria", Email: "maria@inventori.com", FullName: "María", Password: testPassword, Role: "ADMIN",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_PRIVILEGE", errorCode(t, body))
}

func TestAPI_Users_SegundoSuperAdmin409(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	resp, body := api.do(t, http.MethodPost, "/api/users", api.login(t, "root"), dto.CreateUserRequest{
		Username: "root2", Email: "root2@inventori.com", FullName: "Root", Password: testPassword, Role: "SUPER_ADMIN",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_SUPER_ADMIN", errorCode(t, body))
}

func TestAPI_Users_UsernameDuplicado409(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	resp, body := api.do(t, http.MethodPost, "/api/users", api.login(t, "root"), dto.CreateUserRequest{
		Username: "staff", Email: "otro@inventori.com", FullName: "Otro", Password: testPassword,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))
}

func TestAPI_Users_SuperAdminProtegido(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	tok := api.login(t, "admin")
	rootID := api.users["root"].ID

	resp, body := api.do(t, http.MethodDelete, "/api/users/"+rootID, tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PROTECTED_ACCOUNT", errorCode(t, body))

	resp, body = api.do(t, http.MethodPatch, "/api/users/"+rootID+"/reset-password", tok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PROTECTED_ACCOUNT", errorCode(t, body))
}

func TestAPI_Users_UltimoAdmin409(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	resp, body := api.do(t, http.MethodDelete, "/api/users/"+api.users["admin"].ID, api.login(t, "root"), nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "LAST_ADMIN", errorCode(t, body))
}

func TestAPI_Users_CambioRolYEstadisticas(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	tok := api.login(t, "root")

	resp, body := api.do(t, http.MethodPatch, "/api/users/"+api.users["staff"].ID+"/role", tok, dto.ChangeRoleRequest{Role: "ADMIN"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodGet, "/api/users/stats", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats dto.UserStatsResponse
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.SuperAdmins)
	assert.Equal(t, 2, stats.Admins)
	assert.Equal(t, 0, stats.Staff)

	resp, body = api.do(t, http.MethodGet, "/api/users/role/ADMIN", tok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ListResponse[dto.UserResponse]
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 2, list.Total)
}

func TestAPI_Users_TokenPrevioUsaRolVigente(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	rootTok := api.login(t, "root")
	adminTok := api.login(t, "admin")

	resp, body := api.do(t, http.MethodPatch, "/api/users/"+api.users["admin"].ID+"/role", rootTok, dto.ChangeRoleRequest{Role: "STAFF"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodPost, "/api/users", adminTok, dto.CreateUserRequest{
		Username: "fantasma", Email: "fantasma@inventori.com", FullName: "Fantasma", Password: testPassword, Role: "STAFF",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, _ = api.do(t, http.MethodDelete, "/api/users/"+api.users["staff"].ID, adminTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = api.do(t, http.MethodGet, "/api/auth/me", adminTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &me))
	assert.Equal(t, "STAFF", me.Role)
}

func TestAPI_Users_CuentaInactivaRechazada(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	rootTok := api.login(t, "root")
	adminTok := api.login(t, "admin")

	resp, body := api.do(t, http.MethodPatch, "/api/users/"+api.users["admin"].ID+"/status", rootTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodPost, "/api/users", adminTok, dto.CreateUserRequest{
		Username: "fantasma", Email: "fantasma@inventori.com", FullName: "Fantasma", Password: testPassword, Role: "STAFF",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, _ = api.do(t, http.MethodGet, "/api/stocks", adminTok, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = api.do(t, http.MethodGet, "/api/users", rootTok, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, string(body), "fantasma")
}

func TestAPI_Users_CuentaEliminadaInvalidaToken(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	staffTok := api.login(t, "staff")

	resp, body := api.do(t, http.MethodDelete, "/api/users/"+api.users["staff"].ID, api.login(t, "root"), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(body))

	resp, body = api.do(t, http.MethodGet, "/api/stocks", staffTok, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, body))
}

func TestAPI_Users_NoEncontrado404(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	resp, body := api.do(t, http.MethodGet, "/api/users/no-existe", api.login(t, "admin"), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo + ledger de stock
// ──────────────────────────────────────────────────────────────────────────────

func (a *testAPI) createProduct(t *testing.T, tok string, initial int64) *dto.ProductResponse {
	t.Helper()
	resp, body := a.do(t, http.MethodPost, "/api/categories", tok, dto.CategoryRequest{Name: "Ferretería"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var cat dto.CategoryResponse
	require.NoError(t, json.Unmarshal(body, &cat))

	resp, body = a.do(t, http.MethodPost, "/api/suppliers", tok, dto.SupplierRequest{Name: "Acme", Email: "ventas@acme.com"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var sup dto.SupplierResponse
	require.NoError(t, json.Unmarshal(body, &sup))

	resp, body = a.do(t, http.MethodPost, "/api/products", tok, map[string]interface{}{
		"sku": "TOR-1", "name": "Tornillo", "price": "1500", "category_id": cat.ID, "supplier_id": sup.ID,
		"initial_quantity": initial,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p dto.ProductResponse
	require.NoError(t, json.Unmarshal(body, &p))
	return &p
}

func TestAPI_Stock_RestockYConsumoExcesivo(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	p := api.createProduct(t, api.login(t, "admin"), 10)
	staff := api.login(t, "staff")

	resp, body := api.do(t, http.MethodPost, "/api/stocks/product/"+p.ID+"/add?quantity=5", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var s dto.StockResponse
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, int64(15), s.Quantity)
	assert.False(t, s.LowStock)
	require.NotNil(t, s.LastRestockAt)

	resp, body = api.do(t, http.MethodPost, "/api/stocks/product/"+p.ID+"/reduce?quantity=20", staff, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_QUANTITY", errorCode(t, body))

	resp, body = api.do(t, http.MethodGet, "/api/stocks/product/"+p.ID, staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, int64(15), s.Quantity, "el consumo rechazado no modifica la existencia")
}

func TestAPI_Stock_ParametrosInvalidos(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	p := api.createProduct(t, api.login(t, "admin"), 1)
	staff := api.login(t, "staff")

	resp, body := api.do(t, http.MethodPost, "/api/stocks/product/"+p.ID+"/add", staff, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = api.do(t, http.MethodPost, "/api/stocks/product/"+p.ID+"/reduce?quantity=-1", staff, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, body))

	resp, body = api.do(t, http.MethodPost, "/api/stocks/product/no-existe/add?quantity=1", staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestAPI_Stock_ReplaceSoloAdmin(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	admin := api.login(t, "admin")
	p := api.createProduct(t, admin, 50)

	resp, body := api.do(t, http.MethodGet, "/api/stocks/product/"+p.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var s dto.StockResponse
	require.NoError(t, json.Unmarshal(body, &s))

	q, m := int64(2), int64(20)
	req := dto.ReplaceStockRequest{Quantity: &q, MinimumStock: &m}

	resp, _ = api.do(t, http.MethodPut, "/api/stocks/"+s.ID, api.login(t, "staff"), req)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = api.do(t, http.MethodPut, "/api/stocks/"+s.ID, admin, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &s))
	assert.Equal(t, int64(2), s.Quantity)
	assert.True(t, s.LowStock)

	resp, body = api.do(t, http.MethodGet, "/api/stocks/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var low dto.ListResponse[dto.StockResponse]
	require.NoError(t, json.Unmarshal(body, &low))
	assert.Equal(t, 1, low.Total)

	resp, body = api.do(t, http.MethodGet, "/api/stocks/summary", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sum dto.StockSummaryResponse
	require.NoError(t, json.Unmarshal(body, &sum))
	assert.Equal(t, dto.StockSummaryResponse{TotalItems: 1, LowStockItems: 1, OutOfStockItems: 0}, sum)
}

func TestAPI_Stock_ReportePDF(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	admin := api.login(t, "admin")
	api.createProduct(t, admin, 3)

	resp, body := api.do(t, http.MethodGet, "/api/stocks/low-stock/report", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestAPI_Catalogo_StaffSoloLectura(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	api.createProduct(t, api.login(t, "admin"), 1)
	staff := api.login(t, "staff")

	resp, _ := api.do(t, http.MethodPost, "/api/categories", staff, dto.CategoryRequest{Name: "Otra"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/api/products?name=torn", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list dto.ListResponse[dto.ProductResponse]
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.Total)
}

func TestAPI_Catalogo_CategoriaReferenciada409(t *testing.T) {
	api := newTestAPI(t, apphttp.RouterDeps{})
	admin := api.login(t, "admin")
	p := api.createProduct(t, admin, 1)

	resp, body := api.do(t, http.MethodDelete, "/api/categories/"+p.CategoryID, admin, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, body))

	resp, _ = api.do(t, http.MethodDelete, "/api/products/"+p.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = api.do(t, http.MethodDelete, "/api/categories/"+p.CategoryID, admin, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
