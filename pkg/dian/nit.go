// Package dian reúne utilidades de identificación tributaria y catálogos colombianos
// (NIT, unidades de medida, medios de pago) usados por proveedores y documentos de compra.
package dian

import (
	"fmt"
	"strings"
)

// pesos DIAN para el dígito de verificación, aplicados de derecha a izquierda sobre el NIT base
// (Orden Administrativa 4 de 1989). Admite NIT de hasta 15 dígitos.
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

const (
	nitMinDigits = 6
	nitMaxDigits = 15
)

// ComputeNITVerificationDigit calcula el dígito de verificación (módulo 11) del NIT base, sin DV.
// Ignora puntos, espacios y guiones.
func ComputeNITVerificationDigit(base string) (byte, error) {
	digits := onlyDigits(base)
	if len(digits) < nitMinDigits || len(digits) > nitMaxDigits {
		return 0, fmt.Errorf("dian: el NIT base debe tener entre %d y %d dígitos, se encontraron %d", nitMinDigits, nitMaxDigits, len(digits))
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := int(digits[len(digits)-1-i] - '0')
		sum += d * nitWeights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), nil
	}
	return byte('0' + (11 - remainder)), nil
}

// ValidateNITVerificationDigit valida que el último dígito de nit sea su dígito de verificación.
// nit puede ser "900123456-7", "900.123.456-7" o "9001234567".
func ValidateNITVerificationDigit(nit string) error {
	digits := onlyDigits(nit)
	if len(digits) < nitMinDigits+1 {
		return fmt.Errorf("dian: NIT incompleto, se esperaba número base más dígito de verificación")
	}
	base, dv := digits[:len(digits)-1], digits[len(digits)-1]
	expected, err := ComputeNITVerificationDigit(base)
	if err != nil {
		return err
	}
	if dv != expected {
		return fmt.Errorf("dian: dígito de verificación del NIT inválido: esperado %c, recibido %c", expected, dv)
	}
	return nil
}

// NormalizeNIT deja el NIT en formato canónico "base-dv" (sin puntos).
func NormalizeNIT(nit string) string {
	digits := onlyDigits(nit)
	if len(digits) < 2 {
		return digits
	}
	return digits[:len(digits)-1] + "-" + digits[len(digits)-1:]
}

// SplitNIT separa número base y dígito de verificación de un NIT normalizado o no.
func SplitNIT(nit string) (base, dv string) {
	digits := onlyDigits(nit)
	if len(digits) < 2 {
		return digits, ""
	}
	return digits[:len(digits)-1], digits[len(digits)-1:]
}

// onlyDigits deja solo dígitos 0-9.
func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
