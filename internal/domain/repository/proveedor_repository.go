package repository

import (
	"context"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// ProveedorFilter criterios del selector de proveedores.
type ProveedorFilter struct {
	Query       string // coincide con NIT o razón social, sin distinguir mayúsculas ni tildes
	SoloActivos bool
	Limit       int
	Offset      int
}

// ProveedorRepository puerto de persistencia para Proveedor.
// Get* devuelven (nil, nil) si no existe.
type ProveedorRepository interface {
	Create(ctx context.Context, p *entity.Proveedor) error
	GetByID(ctx context.Context, id string) (*entity.Proveedor, error)
	GetByNIT(ctx context.Context, nit string) (*entity.Proveedor, error)
	Update(ctx context.Context, p *entity.Proveedor) error
	Search(ctx context.Context, f ProveedorFilter) ([]*entity.Proveedor, int, error)
}
