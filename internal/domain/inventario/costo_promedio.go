package inventario

import "github.com/shopspring/decimal"

// CostoPromedioPonderado servicio de dominio para el costo de una materia prima tras una entrada.
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
//
// Si el stock resultante es <= 0 el costo de la entrada reemplaza al actual (stock negativo por
// ajustes previos no debe arrastrar un costo sin sentido).
func CostoPromedioPonderado(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	if stockActual.IsNegative() {
		stockActual = decimal.Zero
	}
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return costoEntrada
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum).Round(4)
}

// CostoUnitarioCOP convierte un precio unitario de orden de compra a pesos.
// Para órdenes en COP trm se ignora.
func CostoUnitarioCOP(precioUnitario decimal.Decimal, moneda string, trm decimal.Decimal) decimal.Decimal {
	if moneda == "USD" {
		return precioUnitario.Mul(trm).Round(4)
	}
	return precioUnitario
}
