package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// MateriaPrimaFilter criterios del selector de materias primas.
type MateriaPrimaFilter struct {
	Query       string // código o nombre, sin distinguir mayúsculas ni tildes
	SoloActivos bool
	Limit       int
	Offset      int
}

// MateriaPrimaRepository puerto de persistencia para MateriaPrima.
type MateriaPrimaRepository interface {
	Create(ctx context.Context, m *entity.MateriaPrima) error
	GetByID(ctx context.Context, id string) (*entity.MateriaPrima, error)
	GetByCodigo(ctx context.Context, codigo string) (*entity.MateriaPrima, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo tiene sentido dentro de una tx.
	GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error)
	Update(ctx context.Context, m *entity.MateriaPrima) error
	UpdateStockCosto(ctx context.Context, id string, stock, costo decimal.Decimal) error
	Search(ctx context.Context, f MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error)
	ListBajoStockMinimo(ctx context.Context) ([]*entity.MateriaPrima, error)
}

// MovimientoRepository Kardex de materias primas (solo inserción y consulta).
type MovimientoRepository interface {
	Create(ctx context.Context, m *entity.MovimientoInventario) error
	ListByMateriaPrima(ctx context.Context, materiaPrimaID string, limit, offset int) ([]*entity.MovimientoInventario, int, error)
}
