package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TRM tasa representativa del mercado: pesos colombianos por 1 USD.
type TRM struct {
	Valor         decimal.Decimal
	VigenciaDesde time.Time
	VigenciaHasta time.Time
	Fuente        string
}

// TRMProvider puerto de salida hacia la fuente oficial de la TRM.
// El contexto debe llevar timeout: la implementación hace una llamada HTTP externa.
type TRMProvider interface {
	Actual(ctx context.Context) (*TRM, error)
}
