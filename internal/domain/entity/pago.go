package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago a proveedores.
const (
	MetodoTransferencia = "TRANSFERENCIA"
	MetodoCheque        = "CHEQUE"
	MetodoEfectivo      = "EFECTIVO"
)

// Pago abono a una orden de compra, siempre en COP.
type Pago struct {
	ID            string
	OrdenCompraID string
	Fecha         time.Time
	Valor         decimal.Decimal
	Metodo        string
	Referencia    string
	RegistradoPor string
	CreatedAt     time.Time
}
