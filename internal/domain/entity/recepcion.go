package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recepcion registro de una entrada de mercancía contra una orden de compra ENVIADA.
type Recepcion struct {
	ID            string
	OrdenCompraID string
	FacturaNumero string // número de factura/remisión del proveedor
	Observaciones string
	RecibidoPor   string
	Fecha         time.Time
	CerroOrden    bool // la recepción completó la orden y la pasó a CERRADA
	Items         []ItemRecepcion
}

// ItemRecepcion cantidad recibida de una línea de la orden y el costo aplicado en COP.
type ItemRecepcion struct {
	ID               string
	RecepcionID      string
	ItemOrdenID      string
	MateriaPrimaID   *string
	Cantidad         decimal.Decimal
	CostoUnitarioCOP decimal.Decimal
}
