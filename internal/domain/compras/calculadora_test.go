package compras_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/internal/domain/compras"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func linea(cant, precio, iva string) compras.LineaEntrada {
	return compras.LineaEntrada{Cantidad: d(cant), PrecioUnitario: d(precio), PorcentajeIVA: d(iva)}
}

var cop = compras.Parametros{IVAHabilitado: true, Moneda: compras.MonedaCOP}

// ── Cálculo básico ────────────────────────────────────────────────────────────

func TestCalcularTotales_LineaConIVA(t *testing.T) {
	out, err := compras.CalcularTotales([]compras.LineaEntrada{linea("10", "2500", "19")}, cop)
	require.NoError(t, err)

	require.Len(t, out.Lineas, 1)
	assert.True(t, out.Lineas[0].Subtotal.Equal(d("25000")))
	assert.True(t, out.Lineas[0].IVA.Equal(d("4750")))
	assert.True(t, out.Lineas[0].Total.Equal(d("29750")))
	assert.True(t, out.Total.Equal(d("29750")))
	assert.True(t, out.TotalCOP.Equal(out.Total), "en COP el total en pesos es el mismo total")
}

func TestCalcularTotales_SinLineas(t *testing.T) {
	out, err := compras.CalcularTotales(nil, cop)
	require.NoError(t, err)
	assert.Empty(t, out.Lineas)
	assert.True(t, out.Subtotal.IsZero())
	assert.True(t, out.TotalIVA.IsZero())
	assert.True(t, out.Total.IsZero())
}

func TestCalcularTotales_VariasTasas(t *testing.T) {
	lineas := []compras.LineaEntrada{
		linea("3", "1000", "19"),
		linea("2", "500", "5"),
		linea("1", "7000", "0"),
	}
	out, err := compras.CalcularTotales(lineas, cop)
	require.NoError(t, err)

	assert.True(t, out.Subtotal.Equal(d("11000")))
	assert.True(t, out.TotalIVA.Equal(d("620")), "570 + 50 + 0")
	assert.True(t, out.Total.Equal(d("11620")))
}

// El IVA por línea se redondea a la unidad mínima de la moneda, mitad lejos de cero.
func TestCalcularTotales_RedondeoIVA_COP(t *testing.T) {
	// 1 * 2.5 * 19% = 0.475 -> 0 ; 1 * 50 * 19% = 9.5 -> 10
	out, err := compras.CalcularTotales([]compras.LineaEntrada{
		linea("1", "2.5", "19"),
		linea("1", "50", "19"),
	}, cop)
	require.NoError(t, err)
	assert.True(t, out.Lineas[0].IVA.Equal(d("0")))
	assert.True(t, out.Lineas[1].IVA.Equal(d("10")))
}

func TestCalcularTotales_RedondeoIVA_USD(t *testing.T) {
	p := compras.Parametros{IVAHabilitado: true, Moneda: compras.MonedaUSD, TRM: d("4000")}
	// 3 * 1.05 = 3.15 ; 19% = 0.5985 -> 0.60
	out, err := compras.CalcularTotales([]compras.LineaEntrada{linea("3", "1.05", "19")}, p)
	require.NoError(t, err)
	assert.True(t, out.Lineas[0].Subtotal.Equal(d("3.15")), "el subtotal no se redondea")
	assert.True(t, out.Lineas[0].IVA.Equal(d("0.6")))
	assert.True(t, out.Total.Equal(d("3.75")))
	assert.True(t, out.TotalCOP.Equal(d("15000")))
}

func TestCalcularTotales_TotalCOP_RedondeaAPesos(t *testing.T) {
	p := compras.Parametros{Moneda: compras.MonedaUSD, TRM: d("3912.47")}
	out, err := compras.CalcularTotales([]compras.LineaEntrada{linea("1", "10.01", "0")}, p)
	require.NoError(t, err)
	// 10.01 * 3912.47 = 39163.8247
	assert.True(t, out.TotalCOP.Equal(d("39164")))
}

// ── Propiedades ───────────────────────────────────────────────────────────────

func TestCalcularTotales_TotalEsSubtotalMasIVA(t *testing.T) {
	casos := [][]compras.LineaEntrada{
		{linea("1", "1", "19")},
		{linea("0", "999", "19"), linea("7.5", "13.33", "5")},
		{linea("1000", "0.01", "19"), linea("2", "123456.789", "19"), linea("4", "10", "0")},
	}
	for _, iva := range []bool{true, false} {
		for _, m := range []compras.Moneda{compras.MonedaCOP, compras.MonedaUSD} {
			p := compras.Parametros{IVAHabilitado: iva, Moneda: m, TRM: d("4100")}
			for _, lineas := range casos {
				out, err := compras.CalcularTotales(lineas, p)
				require.NoError(t, err)
				assert.True(t, out.Total.Equal(out.Subtotal.Add(out.TotalIVA)))
				for _, l := range out.Lineas {
					assert.True(t, l.Total.Equal(l.Subtotal.Add(l.IVA)))
				}
			}
		}
	}
}

func TestCalcularTotales_IVADeshabilitado_TotalIVACero(t *testing.T) {
	lineas := []compras.LineaEntrada{linea("5", "100", "19"), linea("2", "40", "5")}
	p := compras.Parametros{IVAHabilitado: false, Moneda: compras.MonedaCOP}

	out, err := compras.CalcularTotales(lineas, p)
	require.NoError(t, err)
	assert.True(t, out.TotalIVA.IsZero())
	assert.True(t, out.Total.Equal(out.Subtotal))
	for _, l := range out.Lineas {
		assert.True(t, l.IVA.IsZero(), "apagar el IVA afecta todas las líneas")
	}
}

func TestCalcularTotales_SubtotalLinealEnCantidadYPrecio(t *testing.T) {
	base := []compras.LineaEntrada{linea("4", "250.5", "19")}
	doble := []compras.LineaEntrada{linea("8", "250.5", "19")}
	doblePrecio := []compras.LineaEntrada{linea("4", "501", "19")}

	a, err := compras.CalcularTotales(base, cop)
	require.NoError(t, err)
	b, err := compras.CalcularTotales(doble, cop)
	require.NoError(t, err)
	c, err := compras.CalcularTotales(doblePrecio, cop)
	require.NoError(t, err)

	assert.True(t, b.Subtotal.Equal(a.Subtotal.Mul(d("2"))))
	assert.True(t, c.Subtotal.Equal(a.Subtotal.Mul(d("2"))))
}

func TestCalcularTotales_Idempotente(t *testing.T) {
	lineas := []compras.LineaEntrada{linea("3", "19.99", "19"), linea("1", "5", "5")}
	p := compras.Parametros{IVAHabilitado: true, Moneda: compras.MonedaUSD, TRM: d("4000")}

	a, err := compras.CalcularTotales(lineas, p)
	require.NoError(t, err)
	b, err := compras.CalcularTotales(lineas, p)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCalcularTotales_CambioDeMonedaNoReescalaPrecios(t *testing.T) {
	lineas := []compras.LineaEntrada{linea("2", "100", "0")}

	enCOP, err := compras.CalcularTotales(lineas, compras.Parametros{Moneda: compras.MonedaCOP})
	require.NoError(t, err)
	enUSD, err := compras.CalcularTotales(lineas, compras.Parametros{Moneda: compras.MonedaUSD, TRM: d("4000")})
	require.NoError(t, err)

	assert.True(t, enCOP.Subtotal.Equal(enUSD.Subtotal))
	assert.True(t, lineas[0].PrecioUnitario.Equal(d("100")), "la entrada no se modifica")
	assert.True(t, enUSD.TotalCOP.Equal(d("800000")))
}

// ── Parámetros y validación ───────────────────────────────────────────────────

func TestCalcularTotales_USDSinTRM_Error(t *testing.T) {
	_, err := compras.CalcularTotales([]compras.LineaEntrada{linea("1", "1", "0")},
		compras.Parametros{Moneda: compras.MonedaUSD})
	require.Error(t, err)

	var e *compras.ErrLinea
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "trm", e.Campo)
}

func TestCalcularTotales_MonedaDesconocida_Error(t *testing.T) {
	_, err := compras.CalcularTotales(nil, compras.Parametros{Moneda: "EUR"})
	assert.Error(t, err)
}

// El editor recalcula aun con valores a medio digitar; la validación de signos es al enviar.
func TestCalcularTotales_NoValidaSignos(t *testing.T) {
	out, err := compras.CalcularTotales([]compras.LineaEntrada{linea("-1", "100", "19")}, cop)
	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(d("-100")))
}

func TestValidarLineas(t *testing.T) {
	tests := []struct {
		name   string
		lineas []compras.LineaEntrada
		campo  string
		linea  int
	}{
		{"sin lineas", nil, "items", 0},
		{"cantidad negativa", []compras.LineaEntrada{linea("1", "1", "0"), linea("-2", "1", "0")}, "cantidad", 2},
		{"precio negativo", []compras.LineaEntrada{linea("1", "-1", "0")}, "precio_unitario", 1},
		{"iva mayor a 100", []compras.LineaEntrada{linea("1", "1", "101")}, "porcentaje_iva", 1},
		{"iva negativo", []compras.LineaEntrada{linea("1", "1", "-5")}, "porcentaje_iva", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := compras.ValidarLineas(tt.lineas)
			var e *compras.ErrLinea
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.campo, e.Campo)
			assert.Equal(t, tt.linea, e.Linea)
		})
	}

	assert.NoError(t, compras.ValidarLineas([]compras.LineaEntrada{linea("0", "0", "0"), linea("1", "10", "100")}))
}
