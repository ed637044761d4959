// Package excel exporta la orden de compra a un libro .xlsx (hoja "Orden").
package excel

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain/compras"
)

// Sheet nombre de la única hoja del libro.
const Sheet = "Orden"

// primera fila de la tabla de líneas (la cabecera ocupa 1..7)
const filaTabla = 9

var columnas = []struct {
	titulo string
	ancho  float64
}{
	{"Línea", 7},
	{"Descripción", 42},
	{"Unidad", 9},
	{"Cantidad", 12},
	{"Precio unit.", 15},
	{"IVA %", 8},
	{"Subtotal", 16},
	{"IVA", 14},
	{"Total", 16},
}

type filaTotal struct {
	label string
	valor decimal.Decimal
}

// OrdenExcelGenerator implementa ports.OrdenExcelGenerator con excelize.
type OrdenExcelGenerator struct{}

// NewOrdenExcelGenerator crea el generador.
func NewOrdenExcelGenerator() *OrdenExcelGenerator { return &OrdenExcelGenerator{} }

// Generate construye el libro y devuelve sus bytes.
func (g *OrdenExcelGenerator) Generate(doc ports.DocumentoOrden) ([]byte, error) {
	if doc.Orden == nil || doc.Proveedor == nil {
		return nil, errors.New("excel: faltan orden o proveedor")
	}
	o := doc.Orden
	moneda := compras.Moneda(o.Moneda)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	titulo, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14, Color: "00467F"}})
	etiqueta, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	encabezado, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#00467F"}},
		Border:    []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	formato := "#,##0"
	if moneda.Decimales() > 0 {
		formato = "#,##0.00"
	}
	numero, _ := f.NewStyle(&excelize.Style{CustomNumFmt: &formato})
	total, _ := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Border:       []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
		CustomNumFmt: &formato,
	})

	// Cabecera
	set := func(cell string, v any) { _ = f.SetCellValue(Sheet, cell, v) }
	set("A1", doc.Empresa.Nombre)
	_ = f.SetCellStyle(Sheet, "A1", "A1", titulo)
	set("A2", "NIT "+doc.Empresa.NIT)
	set("G1", "ORDEN DE COMPRA")
	set("G2", o.Numero)
	_ = f.SetCellStyle(Sheet, "G1", "G2", etiqueta)

	cabecera := [][2]any{
		{"Proveedor", doc.Proveedor.RazonSocial},
		{"NIT proveedor", doc.Proveedor.NIT},
		{"Fecha emisión", o.FechaEmision.Format("2006-01-02")},
		{"Moneda", o.Moneda},
		{"Condición de pago", o.CondicionPago},
	}
	for i, kv := range cabecera {
		fila := i + 3
		set(fmt.Sprintf("A%d", fila), kv[0])
		set(fmt.Sprintf("B%d", fila), kv[1])
		_ = f.SetCellStyle(Sheet, fmt.Sprintf("A%d", fila), fmt.Sprintf("A%d", fila), etiqueta)
	}
	if o.FechaEntrega != nil {
		set("D5", "Fecha entrega")
		set("E5", o.FechaEntrega.Format("2006-01-02"))
		_ = f.SetCellStyle(Sheet, "D5", "D5", etiqueta)
	}
	if moneda == compras.MonedaUSD {
		set("D6", "TRM")
		set("E6", o.TRM.InexactFloat64())
		_ = f.SetCellStyle(Sheet, "D6", "D6", etiqueta)
	}

	// Tabla de líneas
	for i, c := range columnas {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, filaTabla)
		set(cell, c.titulo)
		_ = f.SetCellStyle(Sheet, cell, cell, encabezado)
		_ = f.SetColWidth(Sheet, col, col, c.ancho)
	}
	fila := filaTabla + 1
	for _, it := range o.Items {
		set(fmt.Sprintf("A%d", fila), it.Linea)
		set(fmt.Sprintf("B%d", fila), it.Descripcion)
		set(fmt.Sprintf("C%d", fila), it.UnidadMedida)
		set(fmt.Sprintf("D%d", fila), it.Cantidad.InexactFloat64())
		set(fmt.Sprintf("E%d", fila), it.PrecioUnitario.InexactFloat64())
		set(fmt.Sprintf("F%d", fila), it.PorcentajeIVA.InexactFloat64())
		set(fmt.Sprintf("G%d", fila), it.Subtotal.InexactFloat64())
		set(fmt.Sprintf("H%d", fila), it.ValorIVA.InexactFloat64())
		set(fmt.Sprintf("I%d", fila), it.Total.InexactFloat64())
		_ = f.SetCellStyle(Sheet, fmt.Sprintf("E%d", fila), fmt.Sprintf("E%d", fila), numero)
		_ = f.SetCellStyle(Sheet, fmt.Sprintf("G%d", fila), fmt.Sprintf("I%d", fila), numero)
		fila++
	}

	// Totales
	totales := []filaTotal{
		{"Subtotal", o.Subtotal},
		{"IVA", o.TotalIVA},
		{"Total " + o.Moneda, o.Total},
	}
	if moneda == compras.MonedaUSD {
		totales = append(totales, filaTotal{"Total COP", o.TotalCOP})
	}
	fila++
	for _, t := range totales {
		set(fmt.Sprintf("H%d", fila), t.label)
		set(fmt.Sprintf("I%d", fila), t.valor.InexactFloat64())
		_ = f.SetCellStyle(Sheet, fmt.Sprintf("H%d", fila), fmt.Sprintf("H%d", fila), etiqueta)
		_ = f.SetCellStyle(Sheet, fmt.Sprintf("I%d", fila), fmt.Sprintf("I%d", fila), total)
		fila++
	}
	if doc.CodigoVerificacion != "" {
		fila++
		set(fmt.Sprintf("A%d", fila), "Código de verificación: "+doc.CodigoVerificacion)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
