package repository

import (
	"context"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// ActivoFilter filtros del listado de activos.
type ActivoFilter struct {
	Query     string
	Categoria string
	Estado    string
	Limit     int
	Offset    int
}

// ActivoRepository puerto de persistencia para activos fijos.
type ActivoRepository interface {
	Create(ctx context.Context, a *entity.Activo) error
	GetByID(ctx context.Context, id string) (*entity.Activo, error)
	Update(ctx context.Context, a *entity.Activo) error
	Search(ctx context.Context, f ActivoFilter) ([]*entity.Activo, int, error)
}
