package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario de materias primas.
const (
	MovimientoEntrada = "ENTRADA"
	MovimientoSalida  = "SALIDA"
	MovimientoAjuste  = "AJUSTE"
)

// Orígenes de un movimiento (para trazar la referencia).
const (
	OrigenRecepcion  = "RECEPCION"
	OrigenProduccion = "PRODUCCION"
	OrigenAjuste     = "AJUSTE"
)

// MovimientoInventario registro inmutable (Kardex) de un cambio de stock.
// Cantidad es positiva en ENTRADA/SALIDA; en AJUSTE lleva signo.
type MovimientoInventario struct {
	ID             string
	MateriaPrimaID string
	Tipo           string
	Cantidad       decimal.Decimal
	CostoUnitario  decimal.Decimal
	CostoTotal     decimal.Decimal
	StockResultado decimal.Decimal
	Origen         string
	Referencia     string // ID de recepción, orden de producción o motivo del ajuste
	Fecha          time.Time
	CreadoPor      string
}
