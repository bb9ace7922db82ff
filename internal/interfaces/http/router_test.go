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

	"github.com/Stiven2023/vio-app-sub001/internal/application/conversion"
	"github.com/Stiven2023/vio-app-sub001/internal/application/dto"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
	"github.com/Stiven2023/vio-app-sub001/internal/application/policy"
	"github.com/Stiven2023/vio-app-sub001/internal/application/thirdparty"
	"github.com/Stiven2023/vio-app-sub001/internal/domain/entity"
	apphttp "github.com/Stiven2023/vio-app-sub001/internal/interfaces/http"
	"github.com/Stiven2023/vio-app-sub001/internal/testutil"
	pkgjwt "github.com/Stiven2023/vio-app-sub001/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "vio-app-test"
	testExpMin    = 60
)

type testAPI struct {
	app   *fiber.App
	store *testutil.MemStore
}

// buildTestApp arma la API completa sobre el store en memoria.
func buildTestApp(t *testing.T) *testAPI {
	t.Helper()
	store := testutil.NewMemStore()
	store.AddClient(entity.Client{ID: "cli-1", Name: "Club Deportivo", IdentificationType: "NIT", Identification: "900123456", IsActive: true})
	notifier := &testutil.RecordingNotifier{}
	log := zerolog.Nop()

	app := apphttp.NewApp("vio-app-test")
	apphttp.Router(app, apphttp.RouterDeps{
		OrderUC:      orders.NewOrderUseCase(store, policy.DefaultItemTransitions(), policy.DefaultOrderTransitions(), notifier, log),
		ConversionUC: conversion.NewUseCase(store, notifier, log),
		ClientUC:     thirdparty.NewClientUseCase(store, notifier, log),
		Permissions:  policy.DefaultPermissions(),
		JWTSecret:    testJWTSecret,
		Log:          log,
	})
	return &testAPI{app: app, store: store}
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, "u-"+role, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func (a *testAPI) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func orderBody() map[string]any {
	return map[string]any{
		"name":      "Uniformes torneo",
		"client_id": "cli-1",
		"items": []map[string]any{
			{"name": "Camiseta", "quantity": 10, "unit_price": 99},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Autenticación y permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestAuth_SinToken_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodGet, "/api/orders", "", nil)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body.Code)
}

func TestAuth_TokenInvalido_Retorna401(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodGet, "/api/orders", "Bearer token.invalido.aqui", nil)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body.Code)
}

func TestPermisos_RolSinPermiso_Retorna403(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodPost, "/api/orders", tokenForRole(t, entity.RoleContabilidad), orderBody())
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, policy.PermCrearPedido, body.Details["permission"])
	assert.Empty(t, api.store.Orders())
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestOrders_CrearYObtener(t *testing.T) {
	api := buildTestApp(t)
	asesor := tokenForRole(t, entity.RoleAsesor)

	resp := api.do(t, http.MethodPost, "/api/orders", asesor, orderBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, "VN-000001", created.OrderCode)
	require.Len(t, created.Items, 1)
	assert.Equal(t, entity.ItemStatusPendiente, created.Items[0].Status)

	resp = api.do(t, http.MethodGet, "/api/orders/"+created.ID, tokenForRole(t, entity.RoleDisenador), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[dto.OrderResponse](t, resp)
	assert.Equal(t, created.OrderCode, got.OrderCode)
	assert.True(t, created.Total.Equal(got.Total))

	resp = api.do(t, http.MethodGet, "/api/orders?limit=500", asesor, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.OrderListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Page.Limit)
	assert.Equal(t, 1, list.Page.Total)
}

func TestOrders_ValidacionReportaCampo(t *testing.T) {
	api := buildTestApp(t)
	asesor := tokenForRole(t, entity.RoleAsesor)

	body := orderBody()
	delete(body, "name")
	resp := api.do(t, http.MethodPost, "/api/orders", asesor, body)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "name", errBody.Field)

	body = orderBody()
	body["items"] = []map[string]any{{"name": "Camiseta", "quantity": 0, "unit_price": 10}}
	resp = api.do(t, http.MethodPost, "/api/orders", asesor, body)
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "items[0].quantity", errBody.Field)
}

func TestOrders_Inexistente_Retorna404(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodGet, "/api/orders/no-existe", tokenForRole(t, entity.RoleAsesor), nil)
	body := decode[dto.ErrorResponse](t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestOrders_TransicionDeLineaNoAutorizada_Retorna403ConDetalle(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodPost, "/api/orders", tokenForRole(t, entity.RoleAsesor), orderBody())
	created := decode[dto.OrderResponse](t, resp)
	itemPath := "/api/orders/" + created.ID + "/items/" + created.Items[0].ID

	resp = api.do(t, http.MethodPut, itemPath+"/status", tokenForRole(t, entity.RoleOperarioEmpaque),
		map[string]any{"status": entity.ItemStatusEnRevision})
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, entity.ItemStatusPendiente, body.Details["from"])
	assert.Equal(t, entity.ItemStatusEnRevision, body.Details["to"])

	resp = api.do(t, http.MethodPut, itemPath+"/status", tokenForRole(t, entity.RoleAsesor),
		map[string]any{"status": entity.ItemStatusEnRevision})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	item := decode[dto.OrderItemResponse](t, resp)
	assert.Equal(t, entity.ItemStatusEnRevision, item.Status)

	resp = api.do(t, http.MethodGet, itemPath+"/history", tokenForRole(t, entity.RoleAsesor), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[[]dto.StatusHistoryResponse](t, resp)
	require.Len(t, history, 2)
	assert.Equal(t, entity.ItemStatusEnRevision, history[1].Status)
}

func TestOrders_Eliminar(t *testing.T) {
	api := buildTestApp(t)
	resp := api.do(t, http.MethodPost, "/api/orders", tokenForRole(t, entity.RoleAsesor), orderBody())
	created := decode[dto.OrderResponse](t, resp)

	// ELIMINAR_PEDIDO solo lo tiene el administrador
	resp = api.do(t, http.MethodDelete, "/api/orders/"+created.ID, tokenForRole(t, entity.RoleAsesor), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin := tokenForRole(t, entity.RoleAdministrador)
	resp = api.do(t, http.MethodDelete, "/api/orders/"+created.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = api.do(t, http.MethodGet, "/api/orders/"+created.ID, admin, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversión
// ──────────────────────────────────────────────────────────────────────────────

func TestConvert_PrimeraVez201LuegoReutiliza200(t *testing.T) {
	api := buildTestApp(t)
	api.store.AddQuotation(entity.Quotation{
		ID: "q-1", QuotationCode: "COT10001", ClientID: "cli-1", Currency: "COP",
		PrefacturaApproved: true,
		Items: []entity.QuotationItem{
			{ID: "qi-1", QuotationID: "q-1", Name: "Camiseta", Quantity: 10, UnitPrice: mustDec("100")},
		},
	})
	conta := tokenForRole(t, entity.RoleContabilidad)

	resp := api.do(t, http.MethodPost, "/api/quotations/q-1/convert", conta, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	first := decode[dto.ConversionResponse](t, resp)
	assert.False(t, first.Reused)
	assert.Equal(t, "VN-000001", first.Order.OrderCode)

	resp = api.do(t, http.MethodPost, "/api/quotations/q-1/convert", conta, map[string]any{"order_name": "Renombrado"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	second := decode[dto.ConversionResponse](t, resp)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, first.Prefactura.ID, second.Prefactura.ID)
	assert.Equal(t, "Renombrado", second.Order.Name)
	assert.Len(t, api.store.Prefacturas(), 1)

	resp = api.do(t, http.MethodPost, "/api/quotations/no-existe/convert", conta, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_DocumentosYRevisionJuridica(t *testing.T) {
	api := buildTestApp(t)
	asesor := tokenForRole(t, entity.RoleAsesor)
	body := map[string]any{
		"name":                "Ana Gómez",
		"identification_type": "CC",
		"identification":      "1020304050",
		"documents":           map[string]string{"cedula": "https://files/cedula.pdf"},
	}

	resp := api.do(t, http.MethodPost, "/api/clients", asesor, body)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "documents", errBody.Field)
	assert.Equal(t, []any{"rut"}, errBody.Details["missing_documents"])

	body["documents"] = map[string]string{"cedula": "https://files/cedula.pdf", "rut": "https://files/rut.pdf"}
	resp = api.do(t, http.MethodPost, "/api/clients", asesor, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.ClientResponse](t, resp)
	assert.True(t, created.IsActive)

	resp = api.do(t, http.MethodPost, "/api/clients", asesor, body)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = api.do(t, http.MethodPut, "/api/clients/"+created.ID, asesor, map[string]any{"identification": "1020304051"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[dto.ClientResponse](t, resp)
	assert.False(t, updated.IsActive)
	assert.Equal(t, entity.LegalStatusEnRevision, updated.LegalStatus)

	resp = api.do(t, http.MethodPost, "/api/clients/"+created.ID+"/legal-status", asesor, map[string]any{"status": entity.LegalStatusVigente})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := decode[dto.ClientResponse](t, resp)
	assert.True(t, restored.IsActive)
	assert.Equal(t, entity.LegalStatusVigente, restored.LegalStatus)
}
