package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateActivoRequest alta de un activo fijo.
type CreateActivoRequest struct {
	Codigo           string          `json:"codigo" validate:"required,max=50"`
	Nombre           string          `json:"nombre" validate:"required,min=2,max=200"`
	Categoria        string          `json:"categoria" validate:"max=100"`
	Ubicacion        string          `json:"ubicacion" validate:"max=200"`
	ValorAdquisicion decimal.Decimal `json:"valor_adquisicion" validate:"gte=0"`
	FechaAdquisicion *time.Time      `json:"fecha_adquisicion"`
	OrdenCompraID    *string         `json:"orden_compra_id" validate:"omitempty,uuid"`
}

// DarDeBajaRequest motivo de la baja del activo.
type DarDeBajaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3,max=500"`
}

// ActivoSearchRequest filtros del listado de activos.
type ActivoSearchRequest struct {
	PageRequest
	Q         string `query:"q"`
	Categoria string `query:"categoria"`
	Estado    string `query:"estado" validate:"omitempty,oneof=ACTIVO BAJA"`
}

// ActivoResponse salida de un activo.
type ActivoResponse struct {
	ID               string          `json:"id"`
	Codigo           string          `json:"codigo"`
	Nombre           string          `json:"nombre"`
	Categoria        string          `json:"categoria"`
	Ubicacion        string          `json:"ubicacion"`
	ValorAdquisicion decimal.Decimal `json:"valor_adquisicion"`
	FechaAdquisicion time.Time       `json:"fecha_adquisicion"`
	OrdenCompraID    *string         `json:"orden_compra_id,omitempty"`
	Estado           string          `json:"estado"`
	MotivoBaja       string          `json:"motivo_baja,omitempty"`
}
