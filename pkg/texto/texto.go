// Package texto normaliza cadenas para búsquedas sin distinguir mayúsculas ni tildes.
package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SearchKey pasa s a minúsculas, quita diacríticos (á→a, ñ→n) y colapsa espacios.
// Se guarda junto al registro y se compara contra SearchKey(q) con LIKE.
func SearchKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// SearchKeyOf construye la clave de búsqueda de varios campos.
func SearchKeyOf(fields ...string) string {
	return SearchKey(strings.Join(fields, " "))
}

// LikePattern patrón %q% escapando los comodines de LIKE.
func LikePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(SearchKey(q)) + "%"
}
