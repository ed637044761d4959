package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain/compras"
)

// TipoOrden distingue compras de materiales (OCM) y de activos (OCA).
type TipoOrden string

const (
	TipoOCM TipoOrden = "OCM"
	TipoOCA TipoOrden = "OCA"
)

// IsValid indica si el tipo de orden es conocido.
func (t TipoOrden) IsValid() bool {
	return t == TipoOCM || t == TipoOCA
}

// EstadoOrden ciclo de vida de la orden de compra.
type EstadoOrden string

const (
	EstadoPendiente EstadoOrden = "PENDIENTE"
	EstadoLiberada  EstadoOrden = "LIBERADA"
	EstadoEnviada   EstadoOrden = "ENVIADA"
	EstadoCerrada   EstadoOrden = "CERRADA"
	EstadoCancelada EstadoOrden = "CANCELADA"
)

// IsValid indica si el estado es conocido.
func (e EstadoOrden) IsValid() bool {
	switch e {
	case EstadoPendiente, EstadoLiberada, EstadoEnviada, EstadoCerrada, EstadoCancelada:
		return true
	}
	return false
}

// PuedeTransicionarA valida la máquina de estados:
// PENDIENTE → LIBERADA → ENVIADA → CERRADA; CANCELADA desde cualquier estado no terminal.
// Cancelar además exige que no haya mercancía recibida (OrdenCompra.PuedeCancelarse).
func (e EstadoOrden) PuedeTransicionarA(destino EstadoOrden) bool {
	switch e {
	case EstadoPendiente:
		return destino == EstadoLiberada || destino == EstadoCancelada
	case EstadoLiberada:
		return destino == EstadoEnviada || destino == EstadoCancelada
	case EstadoEnviada:
		return destino == EstadoCerrada || destino == EstadoCancelada
	case EstadoCerrada, EstadoCancelada:
		return false // terminales
	}
	return false
}

// EsDocumento indica si la orden ya es un documento emitido (se puede imprimir/exportar).
func (e EstadoOrden) EsDocumento() bool {
	return e == EstadoLiberada || e == EstadoEnviada || e == EstadoCerrada
}

// OrdenCompra cabecera de la orden de compra con sus líneas.
// Subtotal, TotalIVA, Total y TotalCOP siempre se recalculan en el servidor.
type OrdenCompra struct {
	ID                string
	Numero            string // OCM-000123
	Tipo              TipoOrden
	ProveedorID       string
	Estado            EstadoOrden
	Moneda            string // COP, USD
	TRM               decimal.Decimal
	IVAHabilitado     bool
	FechaEmision      time.Time
	FechaEntrega      *time.Time
	CondicionPago     string
	Observaciones     string
	Subtotal          decimal.Decimal
	TotalIVA          decimal.Decimal
	Total             decimal.Decimal
	TotalCOP          decimal.Decimal
	CreadoPor         string
	LiberadaAt        *time.Time
	EnviadaAt         *time.Time
	CerradaAt         *time.Time
	CanceladaAt       *time.Time
	MotivoCancelacion string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Items             []ItemOrdenCompra
}

// ItemOrdenCompra línea de la orden. En OCM MateriaPrimaID es obligatorio; en OCA puede
// referenciar un activo o llevar solo descripción.
type ItemOrdenCompra struct {
	ID               string
	OrdenID          string
	Linea            int
	MateriaPrimaID   *string
	ActivoID         *string
	Descripcion      string
	UnidadMedida     string
	Cantidad         decimal.Decimal
	PrecioUnitario   decimal.Decimal
	PorcentajeIVA    decimal.Decimal
	Subtotal         decimal.Decimal
	ValorIVA         decimal.Decimal
	Total            decimal.Decimal
	CantidadRecibida decimal.Decimal
}

// Pendiente cantidad aún no recibida de la línea.
func (it *ItemOrdenCompra) Pendiente() decimal.Decimal {
	p := it.Cantidad.Sub(it.CantidadRecibida)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}

// Editable solo las órdenes PENDIENTE admiten cambios de cabecera o líneas.
func (o *OrdenCompra) Editable() bool {
	return o.Estado == EstadoPendiente
}

// TieneRecepciones indica si alguna línea ya registra cantidad recibida.
func (o *OrdenCompra) TieneRecepciones() bool {
	for i := range o.Items {
		if o.Items[i].CantidadRecibida.IsPositive() {
			return true
		}
	}
	return false
}

// TieneCantidad indica si alguna línea pide cantidad mayor que cero.
func (o *OrdenCompra) TieneCantidad() bool {
	for i := range o.Items {
		if o.Items[i].Cantidad.IsPositive() {
			return true
		}
	}
	return false
}

// PuedeCancelarse estado no terminal y sin mercancía recibida.
func (o *OrdenCompra) PuedeCancelarse() bool {
	return o.Estado.PuedeTransicionarA(EstadoCancelada) && !o.TieneRecepciones()
}

// CompletamenteRecibida todas las líneas con pendiente cero.
func (o *OrdenCompra) CompletamenteRecibida() bool {
	return o.QuedaCompleta(nil)
}

// QuedaCompleta indica si, sumando recibido (por ID de línea), no queda pendiente.
func (o *OrdenCompra) QuedaCompleta(recibido map[string]decimal.Decimal) bool {
	if len(o.Items) == 0 {
		return false
	}
	for i := range o.Items {
		it := &o.Items[i]
		if it.Pendiente().Sub(recibido[it.ID]).IsPositive() {
			return false
		}
	}
	return true
}

// Item busca una línea por ID.
func (o *OrdenCompra) Item(id string) *ItemOrdenCompra {
	for i := range o.Items {
		if o.Items[i].ID == id {
			return &o.Items[i]
		}
	}
	return nil
}

// ParametrosCalculo parámetros de la calculadora a partir de la cabecera.
func (o *OrdenCompra) ParametrosCalculo() compras.Parametros {
	return compras.Parametros{
		IVAHabilitado: o.IVAHabilitado,
		Moneda:        compras.Moneda(o.Moneda),
		TRM:           o.TRM,
	}
}

// LineasCalculo entradas de la calculadora en el orden de las líneas.
func (o *OrdenCompra) LineasCalculo() []compras.LineaEntrada {
	out := make([]compras.LineaEntrada, len(o.Items))
	for i, it := range o.Items {
		out[i] = compras.LineaEntrada{
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			PorcentajeIVA:  it.PorcentajeIVA,
		}
	}
	return out
}

// AplicarTotales copia los campos derivados de la calculadora a la orden y sus líneas.
func (o *OrdenCompra) AplicarTotales(t compras.Totales) {
	for i := range o.Items {
		if i >= len(t.Lineas) {
			break
		}
		o.Items[i].Subtotal = t.Lineas[i].Subtotal
		o.Items[i].ValorIVA = t.Lineas[i].IVA
		o.Items[i].Total = t.Lineas[i].Total
	}
	o.Subtotal = t.Subtotal
	o.TotalIVA = t.TotalIVA
	o.Total = t.Total
	o.TotalCOP = t.TotalCOP
}
