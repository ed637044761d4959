// seed_catalogo genera el script SQL de carga inicial de materias primas a partir del
// listado exportado del sistema anterior (CSV separado por ';' en ISO-8859-1, o .xlsx).
//
// Columnas: codigo;nombre;unidad;stock_minimo. La primera fila es encabezado.
//
// Uso: go run ./cmd/seed_catalogo materias_primas.csv [salida.sql]
// Sin salida escribe en stdout.
package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/erp-manufactura/pkg/dian"
	"github.com/jhoicas/erp-manufactura/pkg/texto"
)

type fila struct {
	codigo, nombre, unidad string
	stockMinimo            decimal.Decimal
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_catalogo <archivo.csv|archivo.xlsx> [salida.sql]")
		os.Exit(2)
	}
	registros, err := leer(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		f, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	filas, omitidas := convertir(registros)
	escribirSQL(out, filas)
	fmt.Fprintf(os.Stderr, "Generadas %d materias primas, %d filas omitidas\n", len(filas), len(omitidas))
	for _, o := range omitidas {
		fmt.Fprintln(os.Stderr, "  "+o)
	}
}

func leer(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// convertir omite el encabezado, filas incompletas, unidades sin equivalencia y códigos repetidos.
func convertir(registros [][]string) ([]fila, []string) {
	var filas []fila
	var omitidas []string
	vistos := map[string]bool{}
	for i, rec := range registros {
		if i == 0 {
			continue
		}
		n := i + 1
		if len(rec) < 3 {
			omitidas = append(omitidas, fmt.Sprintf("fila %d: faltan columnas", n))
			continue
		}
		f := fila{
			codigo: strings.ToUpper(strings.TrimSpace(rec[0])),
			nombre: strings.TrimSpace(rec[1]),
			unidad: strings.ToUpper(strings.TrimSpace(rec[2])),
		}
		if f.codigo == "" || f.nombre == "" {
			omitidas = append(omitidas, fmt.Sprintf("fila %d: código o nombre vacío", n))
			continue
		}
		if !dian.IsKnownUnit(f.unidad) {
			omitidas = append(omitidas, fmt.Sprintf("fila %d: unidad %q no reconocida", n, f.unidad))
			continue
		}
		if vistos[f.codigo] {
			omitidas = append(omitidas, fmt.Sprintf("fila %d: código %s repetido", n, f.codigo))
			continue
		}
		if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
			// el sistema anterior exporta con coma decimal
			v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[3]), ",", "."))
			if err != nil || v.IsNegative() {
				omitidas = append(omitidas, fmt.Sprintf("fila %d: stock mínimo %q inválido", n, rec[3]))
				continue
			}
			f.stockMinimo = v
		}
		vistos[f.codigo] = true
		filas = append(filas, f)
	}
	return filas, omitidas
}

func escribirSQL(w io.Writer, filas []fila) {
	fmt.Fprintln(w, "-- Carga inicial de materias primas (generado por seed_catalogo)")
	fmt.Fprintln(w)
	for _, f := range filas {
		fmt.Fprintf(w, "INSERT INTO materias_primas (id, codigo, nombre, unidad_medida, stock_minimo, search_key)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', %s, '%s')\n",
			uuid.New().String(), escapeSQL(f.codigo), escapeSQL(f.nombre), f.unidad,
			f.stockMinimo.String(), escapeSQL(texto.SearchKeyOf(f.codigo, f.nombre)))
		fmt.Fprintln(w, "ON CONFLICT (codigo) DO UPDATE SET nombre = EXCLUDED.nombre, stock_minimo = EXCLUDED.stock_minimo;")
	}
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
