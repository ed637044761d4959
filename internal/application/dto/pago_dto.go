package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrarPagoRequest abono en COP a una orden de compra.
type RegistrarPagoRequest struct {
	Fecha      *time.Time      `json:"fecha"`
	Valor      decimal.Decimal `json:"valor" validate:"gt=0"`
	Metodo     string          `json:"metodo" validate:"required,oneof=TRANSFERENCIA CHEQUE EFECTIVO"`
	Referencia string          `json:"referencia" validate:"max=100"`
}

// PagoResponse pago registrado.
type PagoResponse struct {
	ID            string          `json:"id"`
	OrdenCompraID string          `json:"orden_compra_id"`
	Fecha         time.Time       `json:"fecha"`
	Valor         decimal.Decimal `json:"valor"`
	Metodo        string          `json:"metodo"`
	Referencia    string          `json:"referencia"`
	RegistradoPor string          `json:"registrado_por"`
}

// EstadoCuentaResponse total, pagado y saldo de la orden en COP.
type EstadoCuentaResponse struct {
	OrdenCompraID string          `json:"orden_compra_id"`
	Numero        string          `json:"numero"`
	TotalCOP      decimal.Decimal `json:"total_cop"`
	Pagado        decimal.Decimal `json:"pagado"`
	Saldo         decimal.Decimal `json:"saldo"`
	Pagos         []PagoResponse  `json:"pagos"`
}
