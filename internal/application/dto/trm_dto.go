package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TRMResponse tasa representativa del mercado vigente (COP por 1 USD).
type TRMResponse struct {
	Valor         decimal.Decimal `json:"valor"`
	VigenciaDesde time.Time       `json:"vigencia_desde"`
	VigenciaHasta time.Time       `json:"vigencia_hasta"`
	Fuente        string          `json:"fuente"`
}
