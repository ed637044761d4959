package compras_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	dcompras "github.com/jhoicas/erp-manufactura/internal/domain/compras"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

func TestCreate_RecalculaTotalesYNumera(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("10", "2500", "19")))
	require.NoError(t, err)
	assert.Equal(t, "OCM-000001", o.Numero)
	assert.Equal(t, string(entity.EstadoPendiente), o.Estado)
	assert.True(t, o.Editable)
	assert.True(t, o.IVAHabilitado, "IVA habilitado por defecto")
	assert.True(t, o.Total.Equal(d("29750")))
	assert.True(t, o.TotalCOP.Equal(d("29750")))
	require.Len(t, o.Items, 1)
	assert.Equal(t, "Resina epóxica", o.Items[0].Descripcion, "descripción tomada de la materia prima")
	assert.Equal(t, "KG", o.Items[0].UnidadMedida)
	assert.Equal(t, "Químicos del Cauca", o.Proveedor.RazonSocial)

	o2, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "1", "0")))
	require.NoError(t, err)
	assert.Equal(t, "OCM-000002", o2.Numero)
}

func TestCreate_USDSinTRMConsultaProveedor(t *testing.T) {
	f := newFixture()
	req := ocmRequest(lineaResina("2", "10.50", "19"))
	req.Moneda = "USD"

	o, err := f.ordenes.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.trm.calls)
	assert.True(t, o.TRM.Equal(d("4000")))
	// 21 + 3.99 = 24.99 USD
	assert.True(t, o.Total.Equal(d("24.99")))
	assert.True(t, o.TotalCOP.Equal(d("99960")))
}

func TestCreate_USDConTRMExplicita(t *testing.T) {
	f := newFixture()
	req := ocmRequest(lineaResina("1", "100", "0"))
	req.Moneda = "USD"
	req.TRM = ptr(d("3900"))

	o, err := f.ordenes.Create(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.Zero(t, f.trm.calls)
	assert.True(t, o.TotalCOP.Equal(d("390000")))
}

func TestCreate_USDTRMNoDisponible(t *testing.T) {
	f := newFixture()
	f.trm.err = errTRMCaida
	req := ocmRequest(lineaResina("1", "100", "0"))
	req.Moneda = "USD"

	_, err := f.ordenes.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ValidaLineas(t *testing.T) {
	f := newFixture()
	_, err := f.ordenes.Create(context.Background(), "user-1", ocmRequest(lineaResina("1", "10", "0"), lineaResina("-1", "10", "0")))
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	var le *dcompras.ErrLinea
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Linea)
	assert.Equal(t, "cantidad", le.Campo)
}

func TestCreate_ReferenciasSegunTipo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// OCM sin materia prima
	_, err := f.ordenes.Create(ctx, "user-1", ocmRequest(dto.ItemOrdenRequest{Descripcion: "algo", Cantidad: d("1"), PrecioUnitario: d("1")}))
	var le *dcompras.ErrLinea
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "materia_prima_id", le.Campo)

	// OCA con activo y con descripción libre
	oca := dto.OrdenCompraRequest{Tipo: "OCA", ProveedorID: provID, Moneda: "COP", Items: []dto.ItemOrdenRequest{
		{ActivoID: ptr(tornoID), Cantidad: d("1"), PrecioUnitario: d("85000000"), PorcentajeIVA: d("19")},
		{Descripcion: "Instalación", Cantidad: d("1"), PrecioUnitario: d("500000")},
	}}
	o, err := f.ordenes.Create(ctx, "user-1", oca)
	require.NoError(t, err)
	assert.Equal(t, "OCA-000001", o.Numero)
	assert.Equal(t, "Torno CNC", o.Items[0].Descripcion)
	assert.Equal(t, "UND", o.Items[1].UnidadMedida)

	// OCA sin descripción ni activo
	oca.Items = []dto.ItemOrdenRequest{{Cantidad: d("1"), PrecioUnitario: d("1")}}
	_, err = f.ordenes.Create(ctx, "user-1", oca)
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "descripcion", le.Campo)
}

func TestCreate_ProveedorInactivo(t *testing.T) {
	f := newFixture()
	req := ocmRequest(lineaResina("1", "1", "0"))
	req.ProveedorID = "prov-inactivo"
	_, err := f.ordenes.Create(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdate_SoloPendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "100", "19")))
	require.NoError(t, err)

	u, err := f.ordenes.Update(ctx, o.ID, ocmRequest(lineaResina("2", "100", "19"), lineaResina("1", "50", "0")))
	require.NoError(t, err)
	assert.Equal(t, o.Numero, u.Numero)
	assert.Len(t, u.Items, 2)
	assert.True(t, u.Subtotal.Equal(d("250")))

	_, err = f.ordenes.Liberar(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.ordenes.Update(ctx, o.ID, ocmRequest(lineaResina("3", "100", "19")))
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	req := ocmRequest(lineaResina("1", "1", "0"))
	req.Tipo = "OCA"
	o2, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "1", "0")))
	require.NoError(t, err)
	_, err = f.ordenes.Update(ctx, o2.ID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el tipo no cambia")
}

func TestTransiciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "100", "19")))
	require.NoError(t, err)

	_, err = f.ordenes.Enviar(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se salta LIBERADA")

	l, err := f.ordenes.Liberar(ctx, o.ID)
	require.NoError(t, err)
	assert.NotNil(t, l.LiberadaAt)
	assert.False(t, l.Editable)

	e, err := f.ordenes.Enviar(ctx, o.ID)
	require.NoError(t, err)
	assert.NotNil(t, e.EnviadaAt)

	c, err := f.ordenes.Cerrar(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EstadoCerrada), c.Estado)

	_, err = f.ordenes.Cancelar(ctx, o.ID, dto.CancelarOrdenRequest{Motivo: "tarde"})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "CERRADA es terminal")

	_, err = f.ordenes.Liberar(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLiberar_TodasLasLineasEnCeroEsInvalido(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("0", "100", "19"), lineaResina("0", "50", "0")))
	require.NoError(t, err)

	_, err = f.ordenes.Liberar(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.EstadoPendiente, f.store.Ordenes[o.ID].Estado)

	// basta una línea con cantidad para liberar
	req := ocmRequest(lineaResina("0", "100", "19"), lineaResina("2", "50", "0"))
	_, err = f.ordenes.Update(ctx, o.ID, req)
	require.NoError(t, err)
	_, err = f.ordenes.Liberar(ctx, o.ID)
	assert.NoError(t, err)
}

func TestCancelar(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "100", "19")))
	require.NoError(t, err)

	_, err = f.ordenes.Cancelar(ctx, o.ID, dto.CancelarOrdenRequest{Motivo: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c, err := f.ordenes.Cancelar(ctx, o.ID, dto.CancelarOrdenRequest{Motivo: "Proveedor sin stock"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.EstadoCancelada), c.Estado)
	assert.Equal(t, "Proveedor sin stock", c.MotivoCancelacion)
	assert.NotNil(t, c.CanceladaAt)
}

func TestCancelar_ConRecepcionesEsConflicto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.ordenEnviada(ocmRequest(lineaResina("10", "100", "0")))

	_, err := f.recep.Confirmar(ctx, "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{{ItemID: o.Items[0].ID, Cantidad: d("4")}},
	})
	require.NoError(t, err)

	_, err = f.ordenes.Cancelar(ctx, o.ID, dto.CancelarOrdenRequest{Motivo: "ya no"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCalcular_SinEstado(t *testing.T) {
	f := newFixture()
	out, err := f.ordenes.Calcular(context.Background(), dto.CalcularRequest{
		IVAHabilitado: true,
		Moneda:        "COP",
		Items: []dto.CalcularLineaRequest{
			{Cantidad: d("3"), PrecioUnitario: d("1000"), PorcentajeIVA: d("19")},
			{Cantidad: d("-1"), PrecioUnitario: d("500"), PorcentajeIVA: d("0")},
		},
	})
	require.NoError(t, err, "el editor recalcula valores a medio digitar")
	assert.True(t, out.Subtotal.Equal(d("2500")))
	assert.True(t, out.TotalIVA.Equal(d("570")))
	require.Len(t, out.Items, 2)
	assert.Empty(t, f.store.Ordenes)
}

func TestSearch_Filtros(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "1", "0")))
		require.NoError(t, err)
	}
	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "1", "0")))
	require.NoError(t, err)
	_, err = f.ordenes.Liberar(ctx, o.ID)
	require.NoError(t, err)

	out, err := f.ordenes.Search(ctx, dto.OrdenCompraSearchRequest{Estado: "PENDIENTE"})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Page.Total)

	out, err = f.ordenes.Search(ctx, dto.OrdenCompraSearchRequest{Q: "000004"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Químicos del Cauca", out.Items[0].Proveedor)

	_, err = f.ordenes.Search(ctx, dto.OrdenCompraSearchRequest{Desde: "2025-02-01", Hasta: "2025-01-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSearch_HastaIncluyeOrdenesDelDia(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	delDia, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "1", "0")))
	require.NoError(t, err)
	siguiente, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("1", "1", "0")))
	require.NoError(t, err)
	f.store.Ordenes[delDia.ID].FechaEmision = time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)
	f.store.Ordenes[siguiente.ID].FechaEmision = time.Date(2025, 1, 16, 0, 0, 0, 0, time.Local)

	out, err := f.ordenes.Search(ctx, dto.OrdenCompraSearchRequest{Desde: "2025-01-15", Hasta: "2025-01-15"})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, delDia.ID, out.Items[0].ID)
	assert.Equal(t, 1, out.Page.Total)
}
