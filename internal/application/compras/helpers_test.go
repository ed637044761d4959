package compras_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeTRM struct {
	valor decimal.Decimal
	err   error
	calls int
}

func (f *fakeTRM) Actual(context.Context) (*ports.TRM, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	return &ports.TRM{Valor: f.valor, VigenciaDesde: now, VigenciaHasta: now, Fuente: "test"}, nil
}

var errTRMCaida = errors.New("servicio no disponible")

type fixture struct {
	store   *testutil.Store
	ordenes *compras.OrdenCompraUseCase
	recep   *compras.RecepcionUseCase
	pagos   *compras.PagoUseCase
	trm     *fakeTRM
}

const (
	provID   = "prov-1"
	resinaID = "mp-resina"
	tornoID  = "af-torno"
)

func newFixture() *fixture {
	s := testutil.NewStore()
	now := time.Now()
	s.Proveedores[provID] = &entity.Proveedor{ID: provID, NIT: "800197268-4", RazonSocial: "Químicos del Cauca", Activo: true}
	s.Proveedores["prov-inactivo"] = &entity.Proveedor{ID: "prov-inactivo", NIT: "860034313-7", RazonSocial: "Inactivo"}
	s.MateriasPrimas[resinaID] = &entity.MateriaPrima{
		ID: resinaID, Codigo: "MP-001", Nombre: "Resina epóxica", UnidadMedida: "KG",
		Stock: d("10"), Costo: d("1000"), Activo: true, CreatedAt: now,
	}
	s.Activos[tornoID] = &entity.Activo{ID: tornoID, Codigo: "AF-01", Nombre: "Torno CNC", Estado: entity.ActivoEstadoActivo}
	trm := &fakeTRM{valor: d("4000")}

	return &fixture{
		store: s,
		ordenes: compras.NewOrdenCompraUseCase(
			testutil.OrdenCompraRepo{S: s}, testutil.ProveedorRepo{S: s},
			testutil.MateriaPrimaRepo{S: s}, testutil.ActivoRepo{S: s}, s, trm),
		recep: compras.NewRecepcionUseCase(testutil.OrdenCompraRepo{S: s}, testutil.MateriaPrimaRepo{S: s}, testutil.RecepcionRepo{S: s}, s),
		pagos: compras.NewPagoUseCase(testutil.OrdenCompraRepo{S: s}, testutil.PagoRepo{S: s}, s),
		trm:   trm,
	}
}

func ptr[T any](v T) *T { return &v }

func ocmRequest(items ...dto.ItemOrdenRequest) dto.OrdenCompraRequest {
	return dto.OrdenCompraRequest{Tipo: "OCM", ProveedorID: provID, Moneda: "COP", Items: items}
}

func lineaResina(cant, precio, iva string) dto.ItemOrdenRequest {
	return dto.ItemOrdenRequest{MateriaPrimaID: ptr(resinaID), Cantidad: d(cant), PrecioUnitario: d(precio), PorcentajeIVA: d(iva)}
}

// ordenEnviada crea y avanza una orden hasta ENVIADA.
func (f *fixture) ordenEnviada(req dto.OrdenCompraRequest) *dto.OrdenCompraResponse {
	ctx := context.Background()
	o, err := f.ordenes.Create(ctx, "user-1", req)
	if err != nil {
		panic(err)
	}
	if _, err := f.ordenes.Liberar(ctx, o.ID); err != nil {
		panic(err)
	}
	o, err = f.ordenes.Enviar(ctx, o.ID)
	if err != nil {
		panic(err)
	}
	return o
}
