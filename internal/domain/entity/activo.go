package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un activo fijo.
const (
	ActivoEstadoActivo = "ACTIVO"
	ActivoEstadoBaja   = "BAJA"
)

// Activo activo fijo (maquinaria, equipo) adquirido normalmente con una OCA.
type Activo struct {
	ID               string
	Codigo           string
	Nombre           string
	Categoria        string
	Ubicacion        string
	ValorAdquisicion decimal.Decimal // COP
	FechaAdquisicion time.Time
	OrdenCompraID    *string
	Estado           string
	MotivoBaja       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
