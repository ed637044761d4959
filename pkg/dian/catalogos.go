package dian

import "strings"

// ── Unidades de medida ───────────────────────────────────────────────────────
// Código interno de la materia prima → código UN/ECE Rec. 20 (atributo unitCode en UBL).

var unitCodes = map[string]string{
	"UND": "94",  // Unidad
	"KG":  "KGM", // Kilogramo
	"GR":  "GRM", // Gramo
	"LT":  "LTR", // Litro
	"ML":  "MLT", // Mililitro
	"MT":  "MTR", // Metro
	"M2":  "MTK", // Metro cuadrado
	"M3":  "MTQ", // Metro cúbico
	"DOC": "DZN", // Docena
	"HR":  "HUR", // Hora
	"GL":  "GLL", // Galón
	"ROL": "RO",  // Rollo
}

// UnitCode devuelve el código UN/ECE de la unidad interna; "94" (unidad) si no se conoce.
func UnitCode(unidad string) string {
	if c, ok := unitCodes[strings.ToUpper(strings.TrimSpace(unidad))]; ok {
		return c
	}
	return "94"
}

// IsKnownUnit indica si la unidad interna tiene equivalencia UN/ECE.
func IsKnownUnit(unidad string) bool {
	_, ok := unitCodes[strings.ToUpper(strings.TrimSpace(unidad))]
	return ok
}

// ── Impuestos e identificación ───────────────────────────────────────────────

const (
	TaxCodeIVA            = "01" // IVA
	IdentificationTypeNIT = "31" // NIT - requiere dígito de verificación
)
