package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MateriaPrima insumo comprado con OCM y consumido por producción.
// Costo es el costo promedio ponderado en COP; Stock solo cambia por movimientos.
type MateriaPrima struct {
	ID           string
	Codigo       string
	Nombre       string
	Descripcion  string
	UnidadMedida string // KG, LT, UND, MT...
	Costo        decimal.Decimal
	Stock        decimal.Decimal
	StockMinimo  decimal.Decimal
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// BajoMinimo indica si el stock está por debajo del mínimo configurado.
func (m *MateriaPrima) BajoMinimo() bool {
	return m.StockMinimo.IsPositive() && m.Stock.LessThan(m.StockMinimo)
}
