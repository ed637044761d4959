package produccion_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/produccion"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/testutil"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup() (*produccion.OrdenProduccionUseCase, *testutil.Store) {
	s := testutil.NewStore()
	s.MateriasPrimas["mp-a"] = &entity.MateriaPrima{ID: "mp-a", Codigo: "A", Nombre: "Resina", UnidadMedida: "KG", Stock: d("50"), Costo: d("1200"), Activo: true}
	s.MateriasPrimas["mp-b"] = &entity.MateriaPrima{ID: "mp-b", Codigo: "B", Nombre: "Catalizador", UnidadMedida: "LT", Stock: d("2"), Costo: d("8000"), Activo: true}
	return produccion.NewOrdenProduccionUseCase(testutil.OrdenProduccionRepo{S: s}, testutil.MateriaPrimaRepo{S: s}, s), s
}

func dia(s string) time.Time {
	t, _ := time.ParseInLocation("2006-01-02", s, time.Local)
	return t
}

func request(insumos ...dto.InsumoRequest) dto.CreateOrdenProduccionRequest {
	return dto.CreateOrdenProduccionRequest{
		Producto:        "Tanque 500L",
		Cantidad:        d("10"),
		FechaInicioPlan: dia("2025-03-03"),
		FechaFinPlan:    dia("2025-03-07"),
		Insumos:         insumos,
	}
}

func TestCreate(t *testing.T) {
	uc, _ := setup()
	o, err := uc.Create(context.Background(), "user-1", request(dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("20")}))
	require.NoError(t, err)
	assert.Equal(t, "OP-000001", o.Numero)
	assert.Equal(t, string(entity.ProduccionPlaneada), o.Estado)
	require.Len(t, o.Insumos, 1)
	assert.Equal(t, "A", o.Insumos[0].Codigo)
	assert.True(t, o.Insumos[0].Faltante.IsZero())
}

func TestCreate_Validaciones(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()

	req := request(dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("1")})
	req.FechaFinPlan = dia("2025-03-01")
	_, err := uc.Create(ctx, "user-1", req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "user-1", request(
		dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("1")},
		dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("2")},
	))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, "user-1", request(dto.InsumoRequest{MateriaPrimaID: "no-existe", CantidadRequerida: d("1")}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIniciar_VerificaStock(t *testing.T) {
	uc, s := setup()
	ctx := context.Background()
	o, err := uc.Create(ctx, "user-1", request(
		dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("20")},
		dto.InsumoRequest{MateriaPrimaID: "mp-b", CantidadRequerida: d("3")},
	))
	require.NoError(t, err)
	assert.True(t, o.Insumos[1].Faltante.Equal(d("1")))

	_, err = uc.Iniciar(ctx, o.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "B")

	s.MateriasPrimas["mp-b"].Stock = d("3")
	started, err := uc.Iniciar(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProduccionEnProceso), started.Estado)
	assert.NotNil(t, started.IniciadaAt)
	assert.True(t, s.MateriasPrimas["mp-a"].Stock.Equal(d("50")), "iniciar no consume")
}

func TestTerminar_ConsumeInsumos(t *testing.T) {
	uc, s := setup()
	ctx := context.Background()
	o, err := uc.Create(ctx, "user-1", request(
		dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("20")},
		dto.InsumoRequest{MateriaPrimaID: "mp-b", CantidadRequerida: d("2")},
	))
	require.NoError(t, err)

	_, err = uc.Terminar(ctx, "user-1", o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState, "no se termina sin iniciar")

	_, err = uc.Iniciar(ctx, o.ID)
	require.NoError(t, err)
	done, err := uc.Terminar(ctx, "user-1", o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProduccionTerminada), done.Estado)

	assert.True(t, s.MateriasPrimas["mp-a"].Stock.Equal(d("30")))
	assert.True(t, s.MateriasPrimas["mp-b"].Stock.IsZero())
	assert.True(t, s.MateriasPrimas["mp-a"].Costo.Equal(d("1200")), "la salida no cambia el costo promedio")
	require.Len(t, s.Movimientos, 2)
	for _, m := range s.Movimientos {
		assert.Equal(t, entity.MovimientoSalida, m.Tipo)
		assert.Equal(t, entity.OrigenProduccion, m.Origen)
		assert.Equal(t, o.Numero, m.Referencia)
	}
	assert.True(t, s.Movimientos[0].CostoTotal.Equal(d("24000")))
	for _, ins := range done.Insumos {
		assert.True(t, ins.CantidadConsumida.Equal(ins.CantidadRequerida))
	}
}

func TestTerminar_StockInsuficienteNoConsumeNada(t *testing.T) {
	uc, s := setup()
	ctx := context.Background()
	o, err := uc.Create(ctx, "user-1", request(
		dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("20")},
		dto.InsumoRequest{MateriaPrimaID: "mp-b", CantidadRequerida: d("2")},
	))
	require.NoError(t, err)
	_, err = uc.Iniciar(ctx, o.ID)
	require.NoError(t, err)

	s.MateriasPrimas["mp-b"].Stock = d("1")
	_, err = uc.Terminar(ctx, "user-1", o.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.MateriasPrimas["mp-a"].Stock.Equal(d("50")))
	assert.Empty(t, s.Movimientos)

	got, err := uc.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProduccionEnProceso), got.Estado)
}

func TestCancelar(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	o, err := uc.Create(ctx, "user-1", request(dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("1")}))
	require.NoError(t, err)

	c, err := uc.Cancelar(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProduccionCancelada), c.Estado)

	_, err = uc.Iniciar(ctx, o.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = uc.Cancelar(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProgramacion(t *testing.T) {
	uc, _ := setup()
	ctx := context.Background()
	insumo := dto.InsumoRequest{MateriaPrimaID: "mp-a", CantidadRequerida: d("1")}

	marzo := request(insumo)
	_, err := uc.Create(ctx, "user-1", marzo)
	require.NoError(t, err)

	abril := request(insumo)
	abril.FechaInicioPlan, abril.FechaFinPlan = dia("2025-04-01"), dia("2025-04-03")
	_, err = uc.Create(ctx, "user-1", abril)
	require.NoError(t, err)

	cancelada, err := uc.Create(ctx, "user-1", request(insumo))
	require.NoError(t, err)
	_, err = uc.Cancelar(ctx, cancelada.ID)
	require.NoError(t, err)

	list, err := uc.Programacion(ctx, dto.ProgramacionRequest{Desde: "2025-03-07", Hasta: "2025-03-31"})
	require.NoError(t, err)
	require.Len(t, list, 1, "se cruza el último día del plan; la cancelada no aparece")
	assert.Equal(t, "OP-000001", list[0].Numero)

	list, err = uc.Programacion(ctx, dto.ProgramacionRequest{Desde: "2025-03-01", Hasta: "2025-04-01"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = uc.Programacion(ctx, dto.ProgramacionRequest{Desde: "2025-04-01", Hasta: "2025-03-01"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
