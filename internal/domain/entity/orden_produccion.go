package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoProduccion ciclo de vida de la orden de producción.
type EstadoProduccion string

const (
	ProduccionPlaneada  EstadoProduccion = "PLANEADA"
	ProduccionEnProceso EstadoProduccion = "EN_PROCESO"
	ProduccionTerminada EstadoProduccion = "TERMINADA"
	ProduccionCancelada EstadoProduccion = "CANCELADA"
)

// PuedeTransicionarA PLANEADA → EN_PROCESO → TERMINADA; CANCELADA desde PLANEADA o EN_PROCESO.
func (e EstadoProduccion) PuedeTransicionarA(destino EstadoProduccion) bool {
	switch e {
	case ProduccionPlaneada:
		return destino == ProduccionEnProceso || destino == ProduccionCancelada
	case ProduccionEnProceso:
		return destino == ProduccionTerminada || destino == ProduccionCancelada
	}
	return false
}

// OrdenProduccion orden de fabricación de un producto que consume materias primas.
type OrdenProduccion struct {
	ID              string
	Numero          string // OP-000042
	Producto        string
	Cantidad        decimal.Decimal
	Estado          EstadoProduccion
	FechaInicioPlan time.Time
	FechaFinPlan    time.Time
	IniciadaAt      *time.Time
	TerminadaAt     *time.Time
	Observaciones   string
	CreadoPor       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Insumos         []InsumoProduccion
}

// InsumoProduccion materia prima requerida por la orden de producción.
type InsumoProduccion struct {
	ID                string
	OrdenID           string
	MateriaPrimaID    string
	CantidadRequerida decimal.Decimal
	CantidadConsumida decimal.Decimal
}
