package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemOrdenRequest línea digitada en el editor de la orden.
type ItemOrdenRequest struct {
	MateriaPrimaID *string         `json:"materia_prima_id" validate:"omitempty,uuid"`
	ActivoID       *string         `json:"activo_id" validate:"omitempty,uuid"`
	Descripcion    string          `json:"descripcion" validate:"max=500"`
	UnidadMedida   string          `json:"unidad_medida" validate:"max=10"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	PorcentajeIVA  decimal.Decimal `json:"porcentaje_iva"`
}

// OrdenCompraRequest alta o reemplazo completo de una orden PENDIENTE.
// Los totales enviados por el cliente se ignoran: el servidor los recalcula.
type OrdenCompraRequest struct {
	Tipo          string             `json:"tipo" validate:"required,oneof=OCM OCA"`
	ProveedorID   string             `json:"proveedor_id" validate:"required,uuid"`
	Moneda        string             `json:"moneda" validate:"required,oneof=COP USD"`
	TRM           *decimal.Decimal   `json:"trm" validate:"omitempty,gt=0"`
	IVAHabilitado *bool              `json:"iva_habilitado"`
	FechaEmision  *time.Time         `json:"fecha_emision"`
	FechaEntrega  *time.Time         `json:"fecha_entrega"`
	CondicionPago string             `json:"condicion_pago" validate:"max=100"`
	Observaciones string             `json:"observaciones"`
	Items         []ItemOrdenRequest `json:"items" validate:"required,min=1,dive"`
}

// CalcularLineaRequest línea para el cálculo en vivo (sin referencias).
type CalcularLineaRequest struct {
	Cantidad       decimal.Decimal `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	PorcentajeIVA  decimal.Decimal `json:"porcentaje_iva"`
}

// CalcularRequest recálculo sin estado de las líneas del editor.
type CalcularRequest struct {
	IVAHabilitado bool                   `json:"iva_habilitado"`
	Moneda        string                 `json:"moneda" validate:"required,oneof=COP USD"`
	TRM           decimal.Decimal        `json:"trm"`
	Items         []CalcularLineaRequest `json:"items"`
}

// LineaCalculadaResponse campos derivados de una línea.
type LineaCalculadaResponse struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	IVA      decimal.Decimal `json:"iva"`
	Total    decimal.Decimal `json:"total"`
}

// CalcularResponse totales recalculados; items en el mismo orden de la entrada.
type CalcularResponse struct {
	Items    []LineaCalculadaResponse `json:"items"`
	Subtotal decimal.Decimal          `json:"subtotal"`
	TotalIVA decimal.Decimal          `json:"total_iva"`
	Total    decimal.Decimal          `json:"total"`
	TotalCOP decimal.Decimal          `json:"total_cop"`
}

// CancelarOrdenRequest motivo obligatorio de la cancelación.
type CancelarOrdenRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3,max=500"`
}

// OrdenCompraSearchRequest filtros del listado de órdenes.
type OrdenCompraSearchRequest struct {
	PageRequest
	Tipo        string `query:"tipo" validate:"omitempty,oneof=OCM OCA"`
	Estado      string `query:"estado" validate:"omitempty,oneof=PENDIENTE LIBERADA ENVIADA CERRADA CANCELADA"`
	ProveedorID string `query:"proveedor_id" validate:"omitempty,uuid"`
	Q           string `query:"q"`
	Desde       string `query:"desde" validate:"omitempty,datetime=2006-01-02"`
	Hasta       string `query:"hasta" validate:"omitempty,datetime=2006-01-02"`
}

// ItemOrdenResponse línea de la orden con sus campos derivados.
type ItemOrdenResponse struct {
	ID               string          `json:"id"`
	Linea            int             `json:"linea"`
	MateriaPrimaID   *string         `json:"materia_prima_id,omitempty"`
	ActivoID         *string         `json:"activo_id,omitempty"`
	Descripcion      string          `json:"descripcion"`
	UnidadMedida     string          `json:"unidad_medida"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	PrecioUnitario   decimal.Decimal `json:"precio_unitario"`
	PorcentajeIVA    decimal.Decimal `json:"porcentaje_iva"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	ValorIVA         decimal.Decimal `json:"valor_iva"`
	Total            decimal.Decimal `json:"total"`
	CantidadRecibida decimal.Decimal `json:"cantidad_recibida"`
	Pendiente        decimal.Decimal `json:"pendiente"`
}

// ProveedorResumen datos del proveedor embebidos en la orden.
type ProveedorResumen struct {
	ID          string `json:"id"`
	NIT         string `json:"nit"`
	RazonSocial string `json:"razon_social"`
}

// OrdenCompraResponse orden completa.
type OrdenCompraResponse struct {
	ID                string              `json:"id"`
	Numero            string              `json:"numero"`
	Tipo              string              `json:"tipo"`
	Estado            string              `json:"estado"`
	Proveedor         ProveedorResumen    `json:"proveedor"`
	Moneda            string              `json:"moneda"`
	TRM               decimal.Decimal     `json:"trm"`
	IVAHabilitado     bool                `json:"iva_habilitado"`
	FechaEmision      time.Time           `json:"fecha_emision"`
	FechaEntrega      *time.Time          `json:"fecha_entrega,omitempty"`
	CondicionPago     string              `json:"condicion_pago"`
	Observaciones     string              `json:"observaciones"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	TotalIVA          decimal.Decimal     `json:"total_iva"`
	Total             decimal.Decimal     `json:"total"`
	TotalCOP          decimal.Decimal     `json:"total_cop"`
	CreadoPor         string              `json:"creado_por"`
	LiberadaAt        *time.Time          `json:"liberada_at,omitempty"`
	EnviadaAt         *time.Time          `json:"enviada_at,omitempty"`
	CerradaAt         *time.Time          `json:"cerrada_at,omitempty"`
	CanceladaAt       *time.Time          `json:"cancelada_at,omitempty"`
	MotivoCancelacion string              `json:"motivo_cancelacion,omitempty"`
	Editable          bool                `json:"editable"`
	Items             []ItemOrdenResponse `json:"items"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// OrdenCompraResumenResponse fila del listado.
type OrdenCompraResumenResponse struct {
	ID           string          `json:"id"`
	Numero       string          `json:"numero"`
	Tipo         string          `json:"tipo"`
	Estado       string          `json:"estado"`
	ProveedorID  string          `json:"proveedor_id"`
	Proveedor    string          `json:"proveedor"`
	Moneda       string          `json:"moneda"`
	Total        decimal.Decimal `json:"total"`
	TotalCOP     decimal.Decimal `json:"total_cop"`
	FechaEmision time.Time       `json:"fecha_emision"`
}
