package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// OrdenProduccionFilter filtros del listado de órdenes de producción.
type OrdenProduccionFilter struct {
	Estado entity.EstadoProduccion
	Query  string
	Limit  int
	Offset int
}

// OrdenProduccionRepository puerto de persistencia de órdenes de producción.
type OrdenProduccionRepository interface {
	NextNumero(ctx context.Context) (string, error)
	Create(ctx context.Context, o *entity.OrdenProduccion) error
	GetByID(ctx context.Context, id string) (*entity.OrdenProduccion, error)
	GetForUpdate(ctx context.Context, id string) (*entity.OrdenProduccion, error)
	UpdateEstado(ctx context.Context, o *entity.OrdenProduccion) error
	UpdateConsumo(ctx context.Context, insumoID string, consumida decimal.Decimal) error
	Search(ctx context.Context, f OrdenProduccionFilter) ([]*entity.OrdenProduccion, int, error)
	// ListPlaneadasEntre órdenes no canceladas cuyo plan se cruza con [desde, hasta].
	ListPlaneadasEntre(ctx context.Context, desde, hasta time.Time) ([]*entity.OrdenProduccion, error)
}
