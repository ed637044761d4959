package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertir(t *testing.T) {
	filas, omitidas := convertir([][]string{
		{"codigo", "nombre", "unidad", "stock_minimo"},
		{"mp-001", "Resina epóxica", "kg", "12,5"},
		{"MP-002", "Fibra de vidrio", "ROL", ""},
		{"MP-003", "Pintura", "BARRIL", "1"},
		{"MP-001", "Repetida", "KG", "1"},
		{"MP-004", ""},
		{"MP-005", "Catalizador", "LT", "-1"},
	})
	require.Len(t, filas, 2)
	assert.Equal(t, "MP-001", filas[0].codigo)
	assert.Equal(t, "KG", filas[0].unidad)
	assert.Equal(t, "12.5", filas[0].stockMinimo.String())
	assert.True(t, filas[1].stockMinimo.IsZero())
	assert.Len(t, omitidas, 4)
}

func TestEscribirSQL_EscapaComillas(t *testing.T) {
	filas, _ := convertir([][]string{{"h"}, {"MP-9", "Tubo 1/2' PVC", "UND"}})
	var buf bytes.Buffer
	escribirSQL(&buf, filas)
	assert.Contains(t, buf.String(), "'Tubo 1/2'' PVC'")
	assert.Equal(t, 1, strings.Count(buf.String(), "ON CONFLICT (codigo)"))
}
