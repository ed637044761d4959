package compras_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

func TestPreview_NoPersiste(t *testing.T) {
	f := newFixture()
	o := f.ordenEnviada(ocmRequest(lineaResina("10", "2000", "19")))

	p, err := f.recep.Preview(context.Background(), o.ID, dto.PreviewRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{{ItemID: o.Items[0].ID, Cantidad: d("10")}},
	})
	require.NoError(t, err)
	require.Len(t, p.Lineas, 1)
	l := p.Lineas[0]
	assert.True(t, l.Pendiente.Equal(d("10")))
	assert.True(t, l.Restante.IsZero())
	assert.True(t, l.CostoUnitarioCOP.Equal(d("2000")), "el costo no incluye IVA")
	// (10*1000 + 10*2000) / 20
	assert.True(t, l.CostoResultante.Equal(d("1500")))
	assert.True(t, l.StockResultante.Equal(d("20")))
	assert.True(t, p.CierraOrden)

	assert.True(t, f.store.MateriasPrimas[resinaID].Stock.Equal(d("10")))
	assert.Empty(t, f.store.Movimientos)
}

func TestConfirmar_ParcialYCierreAutomatico(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o := f.ordenEnviada(ocmRequest(lineaResina("10", "2000", "19")))
	itemID := o.Items[0].ID

	r, err := f.recep.Confirmar(ctx, "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		FacturaNumero: "FE-123",
		Lineas:        []dto.LineaRecepcionRequest{{ItemID: itemID, Cantidad: d("4")}},
	})
	require.NoError(t, err)
	assert.False(t, r.CerroOrden)

	mp := f.store.MateriasPrimas[resinaID]
	assert.True(t, mp.Stock.Equal(d("14")))
	// (10*1000 + 4*2000) / 14 = 1285.714285... → 1285.7143
	assert.True(t, mp.Costo.Equal(d("1285.7143")))
	require.Len(t, f.store.Movimientos, 1)
	mov := f.store.Movimientos[0]
	assert.Equal(t, entity.MovimientoEntrada, mov.Tipo)
	assert.Equal(t, entity.OrigenRecepcion, mov.Origen)
	assert.Contains(t, mov.Referencia, o.Numero)
	assert.True(t, mov.StockResultado.Equal(d("14")))

	got, err := f.ordenes.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EstadoEnviada), got.Estado)
	assert.True(t, got.Items[0].Pendiente.Equal(d("6")))

	r, err = f.recep.Confirmar(ctx, "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{{ItemID: itemID, Cantidad: d("6")}},
	})
	require.NoError(t, err)
	assert.True(t, r.CerroOrden)

	got, err = f.ordenes.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EstadoCerrada), got.Estado)
	assert.NotNil(t, got.CerradaAt)

	list, err := f.recep.List(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestConfirmar_USDConvierteConTRMDeLaOrden(t *testing.T) {
	f := newFixture()
	req := ocmRequest(lineaResina("10", "0.5", "0"))
	req.Moneda = "USD"
	req.TRM = ptr(d("4000"))
	o := f.ordenEnviada(req)

	_, err := f.recep.Confirmar(context.Background(), "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{{ItemID: o.Items[0].ID, Cantidad: d("10")}},
	})
	require.NoError(t, err)
	assert.True(t, f.store.Movimientos[0].CostoUnitario.Equal(d("2000")))
}

func TestConfirmar_ExcedePendienteNoAplicaNada(t *testing.T) {
	f := newFixture()
	o := f.ordenEnviada(ocmRequest(lineaResina("10", "2000", "0"), lineaResina("5", "1000", "0")))

	_, err := f.recep.Confirmar(context.Background(), "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{
			{ItemID: o.Items[0].ID, Cantidad: d("10")},
			{ItemID: o.Items[1].ID, Cantidad: d("6")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.store.MateriasPrimas[resinaID].Stock.Equal(d("10")))
	assert.Empty(t, f.store.Movimientos)
	assert.Empty(t, f.store.Recepciones)
}

func TestConfirmar_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	o, err := f.ordenes.Create(ctx, "user-1", ocmRequest(lineaResina("10", "2000", "0")))
	require.NoError(t, err)
	lineas := []dto.LineaRecepcionRequest{{ItemID: o.Items[0].ID, Cantidad: d("1")}}

	_, err = f.recep.Confirmar(ctx, "user-2", o.ID, dto.ConfirmarRecepcionRequest{Lineas: lineas})
	assert.ErrorIs(t, err, domain.ErrInvalidState, "la orden no está ENVIADA")

	_, err = f.ordenes.Liberar(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.ordenes.Enviar(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.recep.Preview(ctx, o.ID, dto.PreviewRecepcionRequest{Lineas: []dto.LineaRecepcionRequest{{ItemID: "otra", Cantidad: d("1")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.recep.Preview(ctx, o.ID, dto.PreviewRecepcionRequest{Lineas: []dto.LineaRecepcionRequest{{ItemID: o.Items[0].ID, Cantidad: d("0")}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.recep.Preview(ctx, o.ID, dto.PreviewRecepcionRequest{Lineas: append(lineas, lineas...)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "línea repetida")

	_, err = f.recep.Preview(ctx, "no-existe", dto.PreviewRecepcionRequest{Lineas: lineas})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmar_OCASinMovimientos(t *testing.T) {
	f := newFixture()
	o := f.ordenEnviada(dto.OrdenCompraRequest{Tipo: "OCA", ProveedorID: provID, Moneda: "COP", Items: []dto.ItemOrdenRequest{
		{ActivoID: ptr(tornoID), Cantidad: d("1"), PrecioUnitario: d("85000000")},
	}})

	r, err := f.recep.Confirmar(context.Background(), "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{{ItemID: o.Items[0].ID, Cantidad: d("1")}},
	})
	require.NoError(t, err)
	assert.True(t, r.CerroOrden)
	assert.Empty(t, f.store.Movimientos)
	assert.True(t, f.store.MateriasPrimas[resinaID].Stock.Equal(d("10")))
}

func TestConfirmar_MismaMateriaPrimaEnVariasLineas(t *testing.T) {
	f := newFixture()
	o := f.ordenEnviada(ocmRequest(lineaResina("10", "2000", "0"), lineaResina("20", "4000", "0")))

	_, err := f.recep.Confirmar(context.Background(), "user-2", o.ID, dto.ConfirmarRecepcionRequest{
		Lineas: []dto.LineaRecepcionRequest{
			{ItemID: o.Items[0].ID, Cantidad: d("10")},
			{ItemID: o.Items[1].ID, Cantidad: d("20")},
		},
	})
	require.NoError(t, err)
	mp := f.store.MateriasPrimas[resinaID]
	assert.True(t, mp.Stock.Equal(d("40")))
	// (10*1000 + 10*2000 + 20*4000) / 40 = 2750
	assert.True(t, mp.Costo.Equal(d("2750")))
	require.Len(t, f.store.Movimientos, 2)
	assert.True(t, f.store.Movimientos[1].StockResultado.Equal(d("40")))
}
