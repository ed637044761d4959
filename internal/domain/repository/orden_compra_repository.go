package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// OrdenCompraFilter filtros del listado de órdenes de compra.
type OrdenCompraFilter struct {
	Tipo        entity.TipoOrden
	Estado      entity.EstadoOrden
	ProveedorID string
	Query       string // número de orden
	Desde       *time.Time
	Hasta       *time.Time
	Limit       int
	Offset      int
}

// OrdenCompraResumen fila del listado (sin líneas) con la razón social del proveedor.
type OrdenCompraResumen struct {
	ID           string          `db:"id"`
	Numero       string          `db:"numero"`
	Tipo         string          `db:"tipo"`
	Estado       string          `db:"estado"`
	ProveedorID  string          `db:"proveedor_id"`
	Proveedor    string          `db:"proveedor"`
	Moneda       string          `db:"moneda"`
	Total        decimal.Decimal `db:"total"`
	TotalCOP     decimal.Decimal `db:"total_cop"`
	FechaEmision time.Time       `db:"fecha_emision"`
}

// OrdenCompraRepository puerto de persistencia de órdenes de compra y sus líneas.
type OrdenCompraRepository interface {
	// NextNumero reserva el siguiente consecutivo del tipo (secuencia de la BD) y lo formatea.
	NextNumero(ctx context.Context, tipo entity.TipoOrden) (string, error)
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, o *entity.OrdenCompra) error
	GetByID(ctx context.Context, id string) (*entity.OrdenCompra, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.OrdenCompra, error)
	// Update reemplaza cabecera y líneas (solo órdenes PENDIENTE).
	Update(ctx context.Context, o *entity.OrdenCompra) error
	// UpdateEstado persiste estado, marcas de tiempo y motivo de cancelación.
	UpdateEstado(ctx context.Context, o *entity.OrdenCompra) error
	UpdateCantidadRecibida(ctx context.Context, itemID string, cantidad decimal.Decimal) error
	Search(ctx context.Context, f OrdenCompraFilter) ([]OrdenCompraResumen, int, error)
}

// RecepcionRepository recepciones de mercancía.
type RecepcionRepository interface {
	Create(ctx context.Context, r *entity.Recepcion) error
	ListByOrden(ctx context.Context, ordenID string) ([]*entity.Recepcion, error)
}

// PagoRepository pagos a proveedores por orden.
type PagoRepository interface {
	Create(ctx context.Context, p *entity.Pago) error
	ListByOrden(ctx context.Context, ordenID string) ([]*entity.Pago, error)
	SumByOrden(ctx context.Context, ordenID string) (decimal.Decimal, error)
}
