package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

// ActivoUseCase registro de activos fijos.
type ActivoUseCase struct {
	repo      repository.ActivoRepository
	ordenRepo repository.OrdenCompraRepository
}

// NewActivoUseCase construye el caso de uso. ordenRepo valida la OCA de origen.
func NewActivoUseCase(repo repository.ActivoRepository, ordenRepo repository.OrdenCompraRepository) *ActivoUseCase {
	return &ActivoUseCase{repo: repo, ordenRepo: ordenRepo}
}

// Create registra un activo. Si referencia una orden, debe ser una OCA que no esté cancelada.
func (uc *ActivoUseCase) Create(ctx context.Context, in dto.CreateActivoRequest) (*dto.ActivoResponse, error) {
	if in.ValorAdquisicion.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if in.OrdenCompraID != nil {
		o, err := uc.ordenRepo.GetByID(ctx, *in.OrdenCompraID)
		if err != nil {
			return nil, err
		}
		if o == nil {
			return nil, domain.ErrNotFound
		}
		if o.Tipo != entity.TipoOCA || o.Estado == entity.EstadoCancelada {
			return nil, domain.ErrInvalidInput
		}
	}
	now := time.Now()
	fecha := now
	if in.FechaAdquisicion != nil {
		fecha = *in.FechaAdquisicion
	}
	a := &entity.Activo{
		ID:               uuid.New().String(),
		Codigo:           strings.ToUpper(strings.TrimSpace(in.Codigo)),
		Nombre:           strings.TrimSpace(in.Nombre),
		Categoria:        in.Categoria,
		Ubicacion:        in.Ubicacion,
		ValorAdquisicion: in.ValorAdquisicion,
		FechaAdquisicion: fecha,
		OrdenCompraID:    in.OrdenCompraID,
		Estado:           entity.ActivoEstadoActivo,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toActivoResponse(a), nil
}

// GetByID obtiene un activo.
func (uc *ActivoUseCase) GetByID(ctx context.Context, id string) (*dto.ActivoResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return toActivoResponse(a), nil
}

// Search listado paginado de activos.
func (uc *ActivoUseCase) Search(ctx context.Context, in dto.ActivoSearchRequest) (*dto.ListResponse[dto.ActivoResponse], error) {
	in.DefaultPage()
	list, total, err := uc.repo.Search(ctx, repository.ActivoFilter{
		Query:     strings.TrimSpace(in.Q),
		Categoria: in.Categoria,
		Estado:    in.Estado,
		Limit:     in.Limit,
		Offset:    in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ActivoResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toActivoResponse(a))
	}
	out := dto.NewListResponse(items, in.PageRequest, total)
	return &out, nil
}

// DarDeBaja retira el activo. Un activo ya dado de baja no cambia (ErrInvalidState).
func (uc *ActivoUseCase) DarDeBaja(ctx context.Context, id string, in dto.DarDeBajaRequest) (*dto.ActivoResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	if a.Estado == entity.ActivoEstadoBaja {
		return nil, domain.ErrInvalidState
	}
	a.Estado = entity.ActivoEstadoBaja
	a.MotivoBaja = strings.TrimSpace(in.Motivo)
	a.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toActivoResponse(a), nil
}

func toActivoResponse(a *entity.Activo) *dto.ActivoResponse {
	return &dto.ActivoResponse{
		ID:               a.ID,
		Codigo:           a.Codigo,
		Nombre:           a.Nombre,
		Categoria:        a.Categoria,
		Ubicacion:        a.Ubicacion,
		ValorAdquisicion: a.ValorAdquisicion,
		FechaAdquisicion: a.FechaAdquisicion,
		OrdenCompraID:    a.OrdenCompraID,
		Estado:           a.Estado,
		MotivoBaja:       a.MotivoBaja,
	}
}
