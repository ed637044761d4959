// Package pdf implementa la representación gráfica de la orden de compra.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT       │  Tipo + N° orden + Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPRADOR: Dirección / Tel / Email                          │
//	│  PROVEEDOR: Razón social + NIT + entrega y condición de pago │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Und | P.Unit | IVA | Subtotal   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / TOTAL (+ TRM y total COP en USD)  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: Código de verificación + QR                         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"errors"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain/compras"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.OrdenPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(doc ports.DocumentoOrden) ([]byte, error) {
	if doc.Orden == nil || doc.Proveedor == nil {
		return nil, errors.New("pdf: faltan orden o proveedor")
	}
	o := doc.Orden

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de compra "+o.Numero, true).
		WithAuthor(doc.Empresa.Nombre, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(o, doc.Empresa))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(compradorRow(doc.Empresa))
	m.AddRows(proveedorRow(o, doc.Proveedor))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(o)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(o))

	if o.Observaciones != "" {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("Observaciones: "+o.Observaciones, props.Text{Size: 8, Top: 2, Color: colorGray}),
		)))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(o, doc.CodigoVerificacion)...)

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(o *entity.OrdenCompra, empresa ports.Empresa) core.Row {
	titulo := "ORDEN DE COMPRA DE MATERIALES"
	if o.Tipo == entity.TipoOCA {
		titulo = "ORDEN DE COMPRA DE ACTIVOS"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(empresa.Nombre, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+empresa.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(o.Numero, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+o.FechaEmision.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func compradorRow(empresa ports.Empresa) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s, %s   |   Tel: %s   |   Email: %s",
				nonEmpty(empresa.Direccion, "-"),
				nonEmpty(empresa.Ciudad, "-"),
				nonEmpty(empresa.Telefono, "-"),
				nonEmpty(empresa.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func proveedorRow(o *entity.OrdenCompra, p *entity.Proveedor) core.Row {
	entrega := "-"
	if o.FechaEntrega != nil {
		entrega = o.FechaEntrega.Format("02/01/2006")
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.RazonSocial, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT: %s   |   Email: %s   |   Tel: %s",
				p.NIT,
				nonEmpty(p.Email, "-"),
				nonEmpty(p.Telefono, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(fmt.Sprintf("Entrega: %s   |   Condición de pago: %s   |   Moneda: %s",
				entrega, nonEmpty(o.CondicionPago, "-"), o.Moneda,
			), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 4, align.Left),
		h("Und.", 1, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("IVA%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(o *entity.OrdenCompra) []core.Row {
	places := compras.Moneda(o.Moneda).Decimales()
	result := make([]core.Row, 0, len(o.Items))
	for _, it := range o.Items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Cantidad.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				it.Descripcion,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.UnidadMedida,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				money(it.PrecioUnitario, places),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				it.PorcentajeIVA.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				money(it.Subtotal, places),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func totalsRow(o *entity.OrdenCompra) core.Row {
	places := compras.Moneda(o.Moneda).Decimales()
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	labels := col.New(3).Add(
		label("Subtotal:", 0),
		label("IVA:", 5),
		label("TOTAL "+o.Moneda+":", 10),
	)
	values := col.New(3).Add(
		value(money(o.Subtotal, places), 0),
		value(money(o.TotalIVA, places), 5),
		grand(money(o.Total, places), 10),
	)
	if compras.Moneda(o.Moneda) == compras.MonedaUSD {
		labels.Add(label("TRM:", 15), label("TOTAL COP:", 20))
		values.Add(value(money(o.TRM, 2), 15), grand(money(o.TotalCOP, 0), 20))
	}
	return row.New(28).Add(col.New(6), labels, values)
}

func footerRows(o *entity.OrdenCompra, codigo string) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("VERIFICACIÓN DEL DOCUMENTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if codigo == "" {
		return rows
	}
	rows = append(rows, row.New(5).Add(col.New(12).Add(
		text.New("Código de verificación (SHA-384 del XML UBL):", props.Text{
			Style: fontstyle.Bold, Size: 7, Top: 1,
		}),
	)))
	for _, chunk := range splitEvery(codigo, 48) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(3))
	rows = append(rows, row.New(40).Add(
		col.New(3).Add(code.NewQr(qrData(o, codigo), props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("El código QR contiene el número, el total y el código de\nverificación de esta orden de compra.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func qrData(o *entity.OrdenCompra, codigo string) string {
	return strings.Join([]string{
		"NumOC:" + o.Numero,
		"FecOC:" + o.FechaEmision.Format("2006-01-02"),
		"ValTot:" + o.Total.String() + " " + o.Moneda,
		"CodVer:" + codigo,
	}, "\n")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money formatea con separador de miles "." y decimal ",". Ej: 1234567.5 → "$1.234.567,50"
func money(v decimal.Decimal, places int32) string {
	s := v.StringFixed(places)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	ent, dec, _ := strings.Cut(s, ".")
	out := "$" + formatThousands(ent)
	if dec != "" {
		out += "," + dec
	}
	if neg {
		out = "-" + out
	}
	return out
}

// formatThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
