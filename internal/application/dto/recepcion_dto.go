package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineaRecepcionRequest cantidad a recibir de una línea de la orden.
type LineaRecepcionRequest struct {
	ItemID   string          `json:"item_id" validate:"required,uuid"`
	Cantidad decimal.Decimal `json:"cantidad" validate:"gt=0"`
}

// PreviewRecepcionRequest paso 1 del asistente de recepción.
type PreviewRecepcionRequest struct {
	Lineas []LineaRecepcionRequest `json:"lineas" validate:"required,min=1,dive"`
}

// ConfirmarRecepcionRequest paso 2: mismas líneas más el soporte del proveedor.
type ConfirmarRecepcionRequest struct {
	FacturaNumero string                  `json:"factura_numero" validate:"max=50"`
	Observaciones string                  `json:"observaciones"`
	Lineas        []LineaRecepcionRequest `json:"lineas" validate:"required,min=1,dive"`
}

// LineaPreviewResponse efecto de recibir la línea: cantidades y costo resultante.
type LineaPreviewResponse struct {
	ItemID           string          `json:"item_id"`
	Linea            int             `json:"linea"`
	Descripcion      string          `json:"descripcion"`
	MateriaPrimaID   *string         `json:"materia_prima_id,omitempty"`
	Pendiente        decimal.Decimal `json:"pendiente"`
	ARecibir         decimal.Decimal `json:"a_recibir"`
	Restante         decimal.Decimal `json:"restante"`
	CostoUnitarioCOP decimal.Decimal `json:"costo_unitario_cop"`
	StockActual      decimal.Decimal `json:"stock_actual"`
	CostoActual      decimal.Decimal `json:"costo_actual"`
	StockResultante  decimal.Decimal `json:"stock_resultante"`
	CostoResultante  decimal.Decimal `json:"costo_resultante"`
}

// PreviewRecepcionResponse resultado del paso 1 (no persiste nada).
type PreviewRecepcionResponse struct {
	OrdenID     string                 `json:"orden_id"`
	Numero      string                 `json:"numero"`
	Lineas      []LineaPreviewResponse `json:"lineas"`
	CierraOrden bool                   `json:"cierra_orden"`
}

// ItemRecepcionResponse línea recibida.
type ItemRecepcionResponse struct {
	ItemOrdenID      string          `json:"item_orden_id"`
	MateriaPrimaID   *string         `json:"materia_prima_id,omitempty"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	CostoUnitarioCOP decimal.Decimal `json:"costo_unitario_cop"`
}

// RecepcionResponse recepción registrada.
type RecepcionResponse struct {
	ID            string                  `json:"id"`
	OrdenCompraID string                  `json:"orden_compra_id"`
	FacturaNumero string                  `json:"factura_numero"`
	Observaciones string                  `json:"observaciones"`
	RecibidoPor   string                  `json:"recibido_por"`
	Fecha         time.Time               `json:"fecha"`
	CerroOrden    bool                    `json:"cerro_orden"`
	Items         []ItemRecepcionResponse `json:"items"`
}
