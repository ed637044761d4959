package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
	"github.com/jhoicas/erp-manufactura/pkg/dian"
)

// ProveedorUseCase maestro de proveedores y búsqueda del selector.
type ProveedorUseCase struct {
	repo repository.ProveedorRepository
}

// NewProveedorUseCase construye el caso de uso.
func NewProveedorUseCase(repo repository.ProveedorRepository) *ProveedorUseCase {
	return &ProveedorUseCase{repo: repo}
}

// Create valida el dígito de verificación del NIT y persiste el proveedor activo.
func (uc *ProveedorUseCase) Create(ctx context.Context, in dto.CreateProveedorRequest) (*dto.ProveedorResponse, error) {
	if err := dian.ValidateNITVerificationDigit(in.NIT); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	nit := dian.NormalizeNIT(in.NIT)
	existing, err := uc.repo.GetByNIT(ctx, nit)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Proveedor{
		ID:            uuid.New().String(),
		NIT:           nit,
		RazonSocial:   strings.TrimSpace(in.RazonSocial),
		Direccion:     in.Direccion,
		Ciudad:        in.Ciudad,
		Telefono:      in.Telefono,
		Email:         in.Email,
		Contacto:      in.Contacto,
		PlazoPagoDias: in.PlazoPagoDias,
		Activo:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProveedorResponse(p), nil
}

// GetByID obtiene un proveedor.
func (uc *ProveedorUseCase) GetByID(ctx context.Context, id string) (*dto.ProveedorResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProveedorResponse(p), nil
}

// Update actualización parcial. El NIT no se modifica.
func (uc *ProveedorUseCase) Update(ctx context.Context, id string, in dto.UpdateProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if in.RazonSocial != nil {
		p.RazonSocial = strings.TrimSpace(*in.RazonSocial)
	}
	if in.Direccion != nil {
		p.Direccion = *in.Direccion
	}
	if in.Ciudad != nil {
		p.Ciudad = *in.Ciudad
	}
	if in.Telefono != nil {
		p.Telefono = *in.Telefono
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if in.Contacto != nil {
		p.Contacto = *in.Contacto
	}
	if in.PlazoPagoDias != nil {
		p.PlazoPagoDias = *in.PlazoPagoDias
	}
	if in.Activo != nil {
		p.Activo = *in.Activo
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProveedorResponse(p), nil
}

// Deactivate marca el proveedor como inactivo; deja de aparecer en el selector con solo_activos.
func (uc *ProveedorUseCase) Deactivate(ctx context.Context, id string) error {
	inactivo := false
	_, err := uc.Update(ctx, id, dto.UpdateProveedorRequest{Activo: &inactivo})
	return err
}

// Search búsqueda paginada por NIT o razón social.
func (uc *ProveedorUseCase) Search(ctx context.Context, in dto.ProveedorSearchRequest) (*dto.ListResponse[dto.ProveedorResponse], error) {
	in.DefaultPage()
	list, total, err := uc.repo.Search(ctx, repository.ProveedorFilter{
		Query:       strings.TrimSpace(in.Q),
		SoloActivos: in.SoloActivos,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProveedorResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProveedorResponse(p))
	}
	out := dto.NewListResponse(items, in.PageRequest, total)
	return &out, nil
}

func toProveedorResponse(p *entity.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:            p.ID,
		NIT:           p.NIT,
		RazonSocial:   p.RazonSocial,
		Direccion:     p.Direccion,
		Ciudad:        p.Ciudad,
		Telefono:      p.Telefono,
		Email:         p.Email,
		Contacto:      p.Contacto,
		PlazoPagoDias: p.PlazoPagoDias,
		Activo:        p.Activo,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
