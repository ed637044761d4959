package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/usecase"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/testutil"
)

func TestActivo_CreateYDarDeBaja(t *testing.T) {
	s := testutil.NewStore()
	uc := usecase.NewActivoUseCase(testutil.ActivoRepo{S: s}, testutil.OrdenCompraRepo{S: s})
	ctx := context.Background()

	a, err := uc.Create(ctx, dto.CreateActivoRequest{Codigo: "af-01", Nombre: "Torno CNC", ValorAdquisicion: decimal.NewFromInt(85000000)})
	require.NoError(t, err)
	assert.Equal(t, "AF-01", a.Codigo)
	assert.Equal(t, entity.ActivoEstadoActivo, a.Estado)

	b, err := uc.DarDeBaja(ctx, a.ID, dto.DarDeBajaRequest{Motivo: "Obsoleto"})
	require.NoError(t, err)
	assert.Equal(t, entity.ActivoEstadoBaja, b.Estado)

	_, err = uc.DarDeBaja(ctx, a.ID, dto.DarDeBajaRequest{Motivo: "Otra vez"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestActivo_OrdenDebeSerOCA(t *testing.T) {
	s := testutil.NewStore()
	s.Ordenes["oc-1"] = &entity.OrdenCompra{ID: "oc-1", Tipo: entity.TipoOCM, Estado: entity.EstadoLiberada}
	uc := usecase.NewActivoUseCase(testutil.ActivoRepo{S: s}, testutil.OrdenCompraRepo{S: s})

	id := "oc-1"
	_, err := uc.Create(context.Background(), dto.CreateActivoRequest{Codigo: "AF-02", Nombre: "Compresor", OrdenCompraID: &id})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	otra := "oc-x"
	_, err = uc.Create(context.Background(), dto.CreateActivoRequest{Codigo: "AF-02", Nombre: "Compresor", OrdenCompraID: &otra})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
