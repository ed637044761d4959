package compras

import (
	"context"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/ports"
)

// TRMUseCase expone la TRM vigente al editor de órdenes.
type TRMUseCase struct {
	provider ports.TRMProvider
}

// NewTRMUseCase construye el caso de uso.
func NewTRMUseCase(provider ports.TRMProvider) *TRMUseCase {
	return &TRMUseCase{provider: provider}
}

// Actual TRM vigente.
func (uc *TRMUseCase) Actual(ctx context.Context) (*dto.TRMResponse, error) {
	t, err := uc.provider.Actual(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.TRMResponse{
		Valor:         t.Valor,
		VigenciaDesde: t.VigenciaDesde,
		VigenciaHasta: t.VigenciaHasta,
		Fuente:        t.Fuente,
	}, nil
}
