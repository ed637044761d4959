package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/internal/application/auth"
	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/application/produccion"
	"github.com/jhoicas/erp-manufactura/internal/application/usecase"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	apphttp "github.com/jhoicas/erp-manufactura/internal/interfaces/http"
	"github.com/jhoicas/erp-manufactura/internal/testutil"
)

const (
	provID   = "11111111-1111-1111-1111-111111111111"
	resinaID = "22222222-2222-2222-2222-222222222222"
)

func newTestServer(t *testing.T) *fiber.App {
	t.Helper()
	s := testutil.NewStore()
	s.Proveedores[provID] = &entity.Proveedor{ID: provID, NIT: "800197268-4", RazonSocial: "Químicos del Cauca", Activo: true}
	s.MateriasPrimas[resinaID] = &entity.MateriaPrima{
		ID: resinaID, Codigo: "MP-001", Nombre: "Resina epóxica", UnidadMedida: "KG",
		Stock: decimal.NewFromInt(10), Costo: decimal.NewFromInt(1000), Activo: true, CreatedAt: time.Now(),
	}

	ordenes := testutil.OrdenCompraRepo{S: s}
	proveedores := testutil.ProveedorRepo{S: s}
	mps := testutil.MateriaPrimaRepo{S: s}
	users := testutil.UserRepo{S: s}

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		Auth: apphttp.NewAuthHandler(
			auth.NewAuthUseCase(users, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
			usecase.NewUserUseCase(users)),
		Proveedores:    apphttp.NewProveedorHandler(usecase.NewProveedorUseCase(proveedores)),
		MateriasPrimas: apphttp.NewMateriaPrimaHandler(usecase.NewMateriaPrimaUseCase(mps, testutil.MovimientoRepo{S: s}, s)),
		OrdenesCompra: apphttp.NewOrdenCompraHandler(
			compras.NewOrdenCompraUseCase(ordenes, proveedores, mps, testutil.ActivoRepo{S: s}, s, nil),
			compras.NewDocumentosUseCase(ordenes, proveedores, ports.Empresa{Nombre: "Tanques SAS"}, nil, nil, nil)),
		Recepciones: apphttp.NewRecepcionHandler(compras.NewRecepcionUseCase(ordenes, mps, testutil.RecepcionRepo{S: s}, s)),
		Pagos:       apphttp.NewPagoHandler(compras.NewPagoUseCase(ordenes, testutil.PagoRepo{S: s}, s)),
		Activos:     apphttp.NewActivoHandler(usecase.NewActivoUseCase(testutil.ActivoRepo{S: s}, ordenes)),
		OrdenesProd: apphttp.NewOrdenProduccionHandler(produccion.NewOrdenProduccionUseCase(testutil.OrdenProduccionRepo{S: s}, mps, s)),
		TRM:         apphttp.NewTRMHandler(compras.NewTRMUseCase(nil)),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func send(t *testing.T, app *fiber.App, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func item(cant, precio, iva string) fiber.Map {
	return fiber.Map{"materia_prima_id": resinaID, "cantidad": cant, "precio_unitario": precio, "porcentaje_iva": iva}
}

func TestCalcular_NoValidaSignos(t *testing.T) {
	app := newTestServer(t)
	resp := send(t, app, http.MethodPost, "/api/ordenes-compra/calcular", entity.RoleCompras, fiber.Map{
		"moneda":         "COP",
		"iva_habilitado": true,
		"items":          []fiber.Map{{"cantidad": "-1", "precio_unitario": "100", "porcentaje_iva": "19"}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.CalcularResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Subtotal.Equal(decimal.NewFromInt(-100)))
	assert.True(t, out.TotalIVA.Equal(decimal.NewFromInt(-19)))
}

func TestCreateOrden_LineaInvalida_422ConCampo(t *testing.T) {
	app := newTestServer(t)
	resp := send(t, app, http.MethodPost, "/api/ordenes-compra", entity.RoleCompras, fiber.Map{
		"tipo":         "OCM",
		"proveedor_id": provID,
		"moneda":       "COP",
		"items":        []fiber.Map{item("1", "10", "19"), item("-2", "10", "19")},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "VALIDATION", out.Code)
	assert.Contains(t, out.Fields, "items[1].cantidad")
}

func TestCreateOrden_SinItems_422(t *testing.T) {
	app := newTestServer(t)
	resp := send(t, app, http.MethodPost, "/api/ordenes-compra", entity.RoleCompras, fiber.Map{
		"tipo":         "OCM",
		"proveedor_id": provID,
		"moneda":       "COP",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var out dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "required", out.Fields["items"])
}

func TestCreateOrden_YConsultar(t *testing.T) {
	app := newTestServer(t)
	resp := send(t, app, http.MethodPost, "/api/ordenes-compra", entity.RoleCompras, fiber.Map{
		"tipo":         "OCM",
		"proveedor_id": provID,
		"moneda":       "COP",
		"items":        []fiber.Map{item("10", "2500", "19")},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var o dto.OrdenCompraResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&o))
	assert.Equal(t, "OCM-000001", o.Numero)
	assert.Equal(t, "PENDIENTE", o.Estado)
	assert.True(t, o.Total.Equal(decimal.NewFromInt(29750)))

	// almacén puede consultar
	get := send(t, app, http.MethodGet, "/api/ordenes-compra/"+o.ID, entity.RoleAlmacen, nil)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)

	// una orden PENDIENTE todavía no es un documento imprimible
	pdf := send(t, app, http.MethodGet, "/api/ordenes-compra/"+o.ID+"/pdf", entity.RoleCompras, nil)
	defer pdf.Body.Close()
	assert.Equal(t, http.StatusConflict, pdf.StatusCode)
}

func TestGetOrden_Inexistente_404(t *testing.T) {
	app := newTestServer(t)
	resp := send(t, app, http.MethodGet, "/api/ordenes-compra/99999999-9999-9999-9999-999999999999", entity.RoleCompras, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_RolesPorModulo(t *testing.T) {
	app := newTestServer(t)
	tests := []struct {
		name   string
		method string
		path   string
		role   string
		status int
	}{
		{"produccion no ve ordenes de compra", http.MethodGet, "/api/ordenes-compra", entity.RoleProduccion, http.StatusForbidden},
		{"almacen no ve pagos", http.MethodGet, "/api/ordenes-compra/" + provID + "/pagos", entity.RoleAlmacen, http.StatusForbidden},
		{"compras no ve produccion", http.MethodGet, "/api/ordenes-produccion", entity.RoleCompras, http.StatusForbidden},
		{"produccion lee materias primas", http.MethodGet, "/api/materias-primas", entity.RoleProduccion, http.StatusOK},
		{"produccion no ajusta stock", http.MethodPost, "/api/materias-primas/" + resinaID + "/ajustes", entity.RoleProduccion, http.StatusForbidden},
		{"solo admin gestiona usuarios", http.MethodGet, "/api/users", entity.RoleCompras, http.StatusForbidden},
		{"admin gestiona usuarios", http.MethodGet, "/api/users", entity.RoleAdmin, http.StatusOK},
		{"sin token", http.MethodGet, "/api/proveedores", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := send(t, app, tt.method, tt.path, tt.role, nil)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestLogin_CredencialesInvalidas_401(t *testing.T) {
	app := newTestServer(t)
	resp := send(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": "nadie@tanques.co", "password": "x"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
