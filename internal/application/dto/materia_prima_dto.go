package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMateriaPrimaRequest entrada para crear una materia prima. Costo y stock inician en 0.
type CreateMateriaPrimaRequest struct {
	Codigo       string          `json:"codigo" validate:"required,min=1,max=50"`
	Nombre       string          `json:"nombre" validate:"required,min=2,max=200"`
	Descripcion  string          `json:"descripcion"`
	UnidadMedida string          `json:"unidad_medida" validate:"required,max=10"`
	StockMinimo  decimal.Decimal `json:"stock_minimo" validate:"gte=0"`
}

// UpdateMateriaPrimaRequest actualización parcial (sin costo ni stock).
type UpdateMateriaPrimaRequest struct {
	Nombre       *string          `json:"nombre" validate:"omitempty,min=2,max=200"`
	Descripcion  *string          `json:"descripcion"`
	UnidadMedida *string          `json:"unidad_medida" validate:"omitempty,max=10"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo" validate:"omitempty,gte=0"`
	Activo       *bool            `json:"activo"`
}

// MateriaPrimaSearchRequest query del selector de materias primas.
type MateriaPrimaSearchRequest struct {
	PageRequest
	Q           string `query:"q"`
	SoloActivos bool   `query:"solo_activos"`
}

// MateriaPrimaResponse salida de una materia prima.
type MateriaPrimaResponse struct {
	ID           string          `json:"id"`
	Codigo       string          `json:"codigo"`
	Nombre       string          `json:"nombre"`
	Descripcion  string          `json:"descripcion"`
	UnidadMedida string          `json:"unidad_medida"`
	Costo        decimal.Decimal `json:"costo"`
	Stock        decimal.Decimal `json:"stock"`
	StockMinimo  decimal.Decimal `json:"stock_minimo"`
	BajoMinimo   bool            `json:"bajo_minimo"`
	Activo       bool            `json:"activo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// AjusteRequest ajuste manual de stock (cantidad con signo).
type AjusteRequest struct {
	Cantidad decimal.Decimal `json:"cantidad" validate:"ne=0"`
	Motivo   string          `json:"motivo" validate:"required,min=3,max=255"`
}

// MovimientoResponse línea del Kardex.
type MovimientoResponse struct {
	ID             string          `json:"id"`
	MateriaPrimaID string          `json:"materia_prima_id"`
	Tipo           string          `json:"tipo"`
	Cantidad       decimal.Decimal `json:"cantidad"`
	CostoUnitario  decimal.Decimal `json:"costo_unitario"`
	CostoTotal     decimal.Decimal `json:"costo_total"`
	StockResultado decimal.Decimal `json:"stock_resultado"`
	Origen         string          `json:"origen"`
	Referencia     string          `json:"referencia"`
	Fecha          time.Time       `json:"fecha"`
	CreadoPor      string          `json:"creado_por"`
}
