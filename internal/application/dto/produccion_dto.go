package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InsumoRequest materia prima requerida por la orden de producción.
type InsumoRequest struct {
	MateriaPrimaID    string          `json:"materia_prima_id" validate:"required,uuid"`
	CantidadRequerida decimal.Decimal `json:"cantidad_requerida" validate:"gt=0"`
}

// CreateOrdenProduccionRequest alta de una orden de producción PLANEADA.
type CreateOrdenProduccionRequest struct {
	Producto        string          `json:"producto" validate:"required,min=2,max=200"`
	Cantidad        decimal.Decimal `json:"cantidad" validate:"gt=0"`
	FechaInicioPlan time.Time       `json:"fecha_inicio_plan" validate:"required"`
	FechaFinPlan    time.Time       `json:"fecha_fin_plan" validate:"required"`
	Observaciones   string          `json:"observaciones"`
	Insumos         []InsumoRequest `json:"insumos" validate:"required,min=1,dive"`
}

// OrdenProduccionSearchRequest filtros del listado.
type OrdenProduccionSearchRequest struct {
	PageRequest
	Estado string `query:"estado" validate:"omitempty,oneof=PLANEADA EN_PROCESO TERMINADA CANCELADA"`
	Q      string `query:"q"`
}

// InsumoResponse insumo con disponibilidad actual.
type InsumoResponse struct {
	ID                string          `json:"id"`
	MateriaPrimaID    string          `json:"materia_prima_id"`
	Codigo            string          `json:"codigo,omitempty"`
	Nombre            string          `json:"nombre,omitempty"`
	CantidadRequerida decimal.Decimal `json:"cantidad_requerida"`
	CantidadConsumida decimal.Decimal `json:"cantidad_consumida"`
	StockDisponible   decimal.Decimal `json:"stock_disponible"`
	Faltante          decimal.Decimal `json:"faltante"`
}

// OrdenProduccionResponse orden de producción.
type OrdenProduccionResponse struct {
	ID              string           `json:"id"`
	Numero          string           `json:"numero"`
	Producto        string           `json:"producto"`
	Cantidad        decimal.Decimal  `json:"cantidad"`
	Estado          string           `json:"estado"`
	FechaInicioPlan time.Time        `json:"fecha_inicio_plan"`
	FechaFinPlan    time.Time        `json:"fecha_fin_plan"`
	IniciadaAt      *time.Time       `json:"iniciada_at,omitempty"`
	TerminadaAt     *time.Time       `json:"terminada_at,omitempty"`
	Observaciones   string           `json:"observaciones"`
	Insumos         []InsumoResponse `json:"insumos,omitempty"`
}

// ProgramacionRequest ventana del calendario de producción (fechas AAAA-MM-DD, inclusivas).
type ProgramacionRequest struct {
	Desde string `query:"desde" validate:"required,datetime=2006-01-02"`
	Hasta string `query:"hasta" validate:"required,datetime=2006-01-02"`
}
