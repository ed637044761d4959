// Package compras contiene la lógica pura de cálculo de las órdenes de compra:
// subtotales, IVA y totales por línea y por orden, en COP o USD.
//
// El cálculo es síncrono, sin estado y se reejecuta completo sobre la lista de
// líneas en cada edición; no hay cálculo incremental.
package compras

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Moneda de la orden de compra.
type Moneda string

const (
	MonedaCOP Moneda = "COP"
	MonedaUSD Moneda = "USD"
)

// IsValid indica si la moneda es soportada.
func (m Moneda) IsValid() bool {
	return m == MonedaCOP || m == MonedaUSD
}

// Decimales devuelve la unidad mínima de redondeo de la moneda (COP sin centavos, USD con 2).
func (m Moneda) Decimales() int32 {
	if m == MonedaUSD {
		return 2
	}
	return 0
}

var cien = decimal.NewFromInt(100)

// LineaEntrada datos editables de una línea (lo que el usuario digita).
type LineaEntrada struct {
	Cantidad       decimal.Decimal
	PrecioUnitario decimal.Decimal
	PorcentajeIVA  decimal.Decimal // 0, 5, 19...
}

// Parametros de cálculo a nivel de orden.
type Parametros struct {
	IVAHabilitado bool
	Moneda        Moneda
	TRM           decimal.Decimal // COP por 1 USD; obligatoria si Moneda == USD
}

// LineaCalculada campos derivados de una línea.
type LineaCalculada struct {
	Subtotal decimal.Decimal
	IVA      decimal.Decimal
	Total    decimal.Decimal
}

// Totales resultado del cálculo de la orden completa.
// Lineas conserva el orden de la entrada.
type Totales struct {
	Lineas   []LineaCalculada
	Subtotal decimal.Decimal
	TotalIVA decimal.Decimal
	Total    decimal.Decimal
	TotalCOP decimal.Decimal // Total expresado en pesos (Total * TRM para USD)
}

// CalcularTotales recalcula todas las líneas y los totales de la orden.
//
//	subtotalLinea = cantidad * precioUnitario
//	ivaLinea      = IVAHabilitado ? round(subtotalLinea * porcentajeIVA / 100) : 0
//	Subtotal      = Σ subtotalLinea
//	TotalIVA      = Σ ivaLinea
//	Total         = Subtotal + TotalIVA
//
// Los precios se asumen digitados en la moneda seleccionada: cambiar de moneda no
// reescala PrecioUnitario. No valida signos; eso lo hace ValidarLineas al enviar.
func CalcularTotales(lineas []LineaEntrada, p Parametros) (Totales, error) {
	if err := ValidarParametros(p); err != nil {
		return Totales{}, err
	}
	places := p.Moneda.Decimales()

	out := Totales{
		Lineas:   make([]LineaCalculada, len(lineas)),
		Subtotal: decimal.Zero,
		TotalIVA: decimal.Zero,
	}
	for i, l := range lineas {
		sub := l.Cantidad.Mul(l.PrecioUnitario)
		iva := decimal.Zero
		if p.IVAHabilitado {
			iva = sub.Mul(l.PorcentajeIVA).Div(cien).Round(places)
		}
		out.Lineas[i] = LineaCalculada{
			Subtotal: sub,
			IVA:      iva,
			Total:    sub.Add(iva),
		}
		out.Subtotal = out.Subtotal.Add(sub)
		out.TotalIVA = out.TotalIVA.Add(iva)
	}
	out.Total = out.Subtotal.Add(out.TotalIVA)

	if p.Moneda == MonedaUSD {
		out.TotalCOP = out.Total.Mul(p.TRM).Round(0)
	} else {
		out.TotalCOP = out.Total
	}
	return out, nil
}

// ValidarParametros verifica moneda y TRM.
func ValidarParametros(p Parametros) error {
	if !p.Moneda.IsValid() {
		return &ErrLinea{Linea: 0, Campo: "moneda", Motivo: fmt.Sprintf("moneda %q no soportada", p.Moneda)}
	}
	if p.Moneda == MonedaUSD && !p.TRM.GreaterThan(decimal.Zero) {
		return &ErrLinea{Linea: 0, Campo: "trm", Motivo: "la TRM debe ser mayor que cero para órdenes en USD"}
	}
	return nil
}

// ValidarLineas aplica las validaciones de envío: al menos una línea, cantidad y precio
// no negativos, IVA entre 0 y 100. Se invoca al guardar, no en cada tecleo.
func ValidarLineas(lineas []LineaEntrada) error {
	if len(lineas) == 0 {
		return &ErrLinea{Linea: 0, Campo: "items", Motivo: "la orden debe tener al menos una línea"}
	}
	for i, l := range lineas {
		n := i + 1
		if l.Cantidad.IsNegative() {
			return &ErrLinea{Linea: n, Campo: "cantidad", Motivo: "no puede ser negativa"}
		}
		if l.PrecioUnitario.IsNegative() {
			return &ErrLinea{Linea: n, Campo: "precio_unitario", Motivo: "no puede ser negativo"}
		}
		if l.PorcentajeIVA.IsNegative() || l.PorcentajeIVA.GreaterThan(cien) {
			return &ErrLinea{Linea: n, Campo: "porcentaje_iva", Motivo: "debe estar entre 0 y 100"}
		}
	}
	return nil
}

// ErrLinea describe el primer campo inválido encontrado. Linea es 1-based; 0 = cabecera.
type ErrLinea struct {
	Linea  int
	Campo  string
	Motivo string
}

func (e *ErrLinea) Error() string {
	if e.Linea == 0 {
		return fmt.Sprintf("%s: %s", e.Campo, e.Motivo)
	}
	return fmt.Sprintf("línea %d, %s: %s", e.Linea, e.Campo, e.Motivo)
}
