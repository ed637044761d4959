package inventario_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/erp-manufactura/internal/domain/inventario"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostoPromedioPonderado(t *testing.T) {
	tests := []struct {
		name                         string
		stock, costo, cant, costoEnt string
		want                         string
	}{
		{"sin stock previo toma el costo de entrada", "0", "0", "10", "1500", "1500"},
		{"promedio simple", "10", "1000", "10", "2000", "1500"},
		{"ponderado", "30", "100", "10", "200", "125"},
		{"stock negativo se trata como cero", "-5", "900", "10", "1200", "1200"},
		{"resultado redondeado a 4 decimales", "3", "1", "0", "0", "1"},
		{"tercios", "2", "1", "1", "2", "1.3333"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inventario.CostoPromedioPonderado(dec(tt.stock), dec(tt.costo), dec(tt.cant), dec(tt.costoEnt))
			assert.True(t, got.Equal(dec(tt.want)), "esperado %s, obtenido %s", tt.want, got)
		})
	}
}

func TestCostoUnitarioCOP(t *testing.T) {
	assert.True(t, inventario.CostoUnitarioCOP(dec("2.5"), "USD", dec("4000")).Equal(dec("10000")))
	assert.True(t, inventario.CostoUnitarioCOP(dec("2500"), "COP", dec("4000")).Equal(dec("2500")))
}
