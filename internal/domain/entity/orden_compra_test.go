package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

func TestEstadoOrden_PuedeTransicionarA(t *testing.T) {
	permitidas := map[entity.EstadoOrden][]entity.EstadoOrden{
		entity.EstadoPendiente: {entity.EstadoLiberada, entity.EstadoCancelada},
		entity.EstadoLiberada:  {entity.EstadoEnviada, entity.EstadoCancelada},
		entity.EstadoEnviada:   {entity.EstadoCerrada, entity.EstadoCancelada},
		entity.EstadoCerrada:   {},
		entity.EstadoCancelada: {},
	}
	todos := []entity.EstadoOrden{
		entity.EstadoPendiente, entity.EstadoLiberada, entity.EstadoEnviada,
		entity.EstadoCerrada, entity.EstadoCancelada,
	}
	for origen, destinos := range permitidas {
		for _, destino := range todos {
			want := false
			for _, p := range destinos {
				if p == destino {
					want = true
				}
			}
			assert.Equal(t, want, origen.PuedeTransicionarA(destino), "%s → %s", origen, destino)
		}
	}
}

func TestOrdenCompra_PuedeCancelarse_SinRecepciones(t *testing.T) {
	o := &entity.OrdenCompra{
		Estado: entity.EstadoEnviada,
		Items: []entity.ItemOrdenCompra{
			{Cantidad: decimal.NewFromInt(10), CantidadRecibida: decimal.Zero},
		},
	}
	assert.True(t, o.PuedeCancelarse())

	o.Items[0].CantidadRecibida = decimal.NewFromInt(1)
	assert.False(t, o.PuedeCancelarse(), "con mercancía recibida no se cancela")

	o.Items[0].CantidadRecibida = decimal.Zero
	o.Estado = entity.EstadoCerrada
	assert.False(t, o.PuedeCancelarse())
}

func TestOrdenCompra_CompletamenteRecibida(t *testing.T) {
	o := &entity.OrdenCompra{Items: []entity.ItemOrdenCompra{
		{Cantidad: decimal.NewFromInt(5), CantidadRecibida: decimal.NewFromInt(5)},
		{Cantidad: decimal.NewFromInt(2), CantidadRecibida: decimal.NewFromInt(1)},
	}}
	assert.False(t, o.CompletamenteRecibida())
	assert.True(t, o.Items[1].Pendiente().Equal(decimal.NewFromInt(1)))

	o.Items[1].CantidadRecibida = decimal.NewFromInt(2)
	assert.True(t, o.CompletamenteRecibida())

	assert.False(t, (&entity.OrdenCompra{}).CompletamenteRecibida(), "sin líneas no hay nada recibido")
}

func TestOrdenCompra_QuedaCompleta(t *testing.T) {
	o := &entity.OrdenCompra{Items: []entity.ItemOrdenCompra{
		{ID: "a", Cantidad: decimal.NewFromInt(5), CantidadRecibida: decimal.NewFromInt(3)},
		{ID: "b", Cantidad: decimal.NewFromInt(2), CantidadRecibida: decimal.NewFromInt(2)},
	}}
	assert.False(t, o.QuedaCompleta(nil))
	assert.False(t, o.QuedaCompleta(map[string]decimal.Decimal{"a": decimal.NewFromInt(1)}))
	assert.True(t, o.QuedaCompleta(map[string]decimal.Decimal{"a": decimal.NewFromInt(2)}))
}

func TestOrdenCompra_TieneCantidad(t *testing.T) {
	o := &entity.OrdenCompra{Items: []entity.ItemOrdenCompra{
		{Cantidad: decimal.Zero},
		{Cantidad: decimal.Zero},
	}}
	assert.False(t, o.TieneCantidad())

	o.Items[1].Cantidad = decimal.RequireFromString("0.5")
	assert.True(t, o.TieneCantidad())
}

func TestOrdenCompra_Editable(t *testing.T) {
	assert.True(t, (&entity.OrdenCompra{Estado: entity.EstadoPendiente}).Editable())
	assert.False(t, (&entity.OrdenCompra{Estado: entity.EstadoLiberada}).Editable())
}

func TestEstadoProduccion_PuedeTransicionarA(t *testing.T) {
	assert.True(t, entity.ProduccionPlaneada.PuedeTransicionarA(entity.ProduccionEnProceso))
	assert.True(t, entity.ProduccionEnProceso.PuedeTransicionarA(entity.ProduccionTerminada))
	assert.True(t, entity.ProduccionEnProceso.PuedeTransicionarA(entity.ProduccionCancelada))
	assert.False(t, entity.ProduccionPlaneada.PuedeTransicionarA(entity.ProduccionTerminada))
	assert.False(t, entity.ProduccionTerminada.PuedeTransicionarA(entity.ProduccionCancelada))
}
