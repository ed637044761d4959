package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
	"github.com/jhoicas/erp-manufactura/pkg/dian"
)

// MateriaPrimaUseCase maestro de materias primas, Kardex y ajustes manuales.
// Costo y Stock solo cambian por movimientos (recepción, producción, ajuste).
type MateriaPrimaUseCase struct {
	repo     repository.MateriaPrimaRepository
	movRepo  repository.MovimientoRepository
	txRunner ports.TxRunner
}

// NewMateriaPrimaUseCase construye el caso de uso.
func NewMateriaPrimaUseCase(
	repo repository.MateriaPrimaRepository,
	movRepo repository.MovimientoRepository,
	txRunner ports.TxRunner,
) *MateriaPrimaUseCase {
	return &MateriaPrimaUseCase{repo: repo, movRepo: movRepo, txRunner: txRunner}
}

// Create crea una materia prima con costo y stock en 0.
func (uc *MateriaPrimaUseCase) Create(ctx context.Context, in dto.CreateMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	codigo := strings.ToUpper(strings.TrimSpace(in.Codigo))
	existing, err := uc.repo.GetByCodigo(ctx, codigo)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.StockMinimo.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if !dian.IsKnownUnit(in.UnidadMedida) {
		return nil, fmt.Errorf("%w: unidad de medida %q no reconocida", domain.ErrInvalidInput, in.UnidadMedida)
	}
	now := time.Now()
	m := &entity.MateriaPrima{
		ID:           uuid.New().String(),
		Codigo:       codigo,
		Nombre:       strings.TrimSpace(in.Nombre),
		Descripcion:  in.Descripcion,
		UnidadMedida: strings.ToUpper(strings.TrimSpace(in.UnidadMedida)),
		Costo:        decimal.Zero,
		Stock:        decimal.Zero,
		StockMinimo:  in.StockMinimo,
		Activo:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return toMateriaPrimaResponse(m), nil
}

// GetByID obtiene una materia prima.
func (uc *MateriaPrimaUseCase) GetByID(ctx context.Context, id string) (*dto.MateriaPrimaResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMateriaPrimaResponse(m), nil
}

// Update actualiza datos maestros. No permite modificar Costo ni Stock.
func (uc *MateriaPrimaUseCase) Update(ctx context.Context, id string, in dto.UpdateMateriaPrimaRequest) (*dto.MateriaPrimaResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != nil {
		m.Nombre = strings.TrimSpace(*in.Nombre)
	}
	if in.Descripcion != nil {
		m.Descripcion = *in.Descripcion
	}
	if in.UnidadMedida != nil {
		if !dian.IsKnownUnit(*in.UnidadMedida) {
			return nil, fmt.Errorf("%w: unidad de medida %q no reconocida", domain.ErrInvalidInput, *in.UnidadMedida)
		}
		m.UnidadMedida = strings.ToUpper(strings.TrimSpace(*in.UnidadMedida))
	}
	if in.StockMinimo != nil {
		if in.StockMinimo.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		m.StockMinimo = *in.StockMinimo
	}
	if in.Activo != nil {
		m.Activo = *in.Activo
	}
	m.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	return toMateriaPrimaResponse(m), nil
}

// Search búsqueda paginada por código o nombre (selector de la orden de compra).
func (uc *MateriaPrimaUseCase) Search(ctx context.Context, in dto.MateriaPrimaSearchRequest) (*dto.ListResponse[dto.MateriaPrimaResponse], error) {
	in.DefaultPage()
	list, total, err := uc.repo.Search(ctx, repository.MateriaPrimaFilter{
		Query:       strings.TrimSpace(in.Q),
		SoloActivos: in.SoloActivos,
		Limit:       in.Limit,
		Offset:      in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MateriaPrimaResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMateriaPrimaResponse(m))
	}
	out := dto.NewListResponse(items, in.PageRequest, total)
	return &out, nil
}

// BajoStockMinimo materias primas activas con stock por debajo del mínimo.
func (uc *MateriaPrimaUseCase) BajoStockMinimo(ctx context.Context) ([]dto.MateriaPrimaResponse, error) {
	list, err := uc.repo.ListBajoStockMinimo(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MateriaPrimaResponse, 0, len(list))
	for _, m := range list {
		out = append(out, *toMateriaPrimaResponse(m))
	}
	return out, nil
}

// Movimientos Kardex de la materia prima, más reciente primero.
func (uc *MateriaPrimaUseCase) Movimientos(ctx context.Context, id string, p dto.PageRequest) (*dto.ListResponse[dto.MovimientoResponse], error) {
	p.DefaultPage()
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	list, total, err := uc.movRepo.ListByMateriaPrima(ctx, id, p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovimientoResponse, 0, len(list))
	for _, mv := range list {
		items = append(items, toMovimientoResponse(mv))
	}
	out := dto.NewListResponse(items, p, total)
	return &out, nil
}

// Ajustar registra un ajuste manual de stock (cantidad con signo) al costo promedio vigente.
// Bloquea la fila de la materia prima; un ajuste no puede dejar el stock negativo.
func (uc *MateriaPrimaUseCase) Ajustar(ctx context.Context, userID, id string, in dto.AjusteRequest) (*dto.MovimientoResponse, error) {
	if in.Cantidad.IsZero() || strings.TrimSpace(in.Motivo) == "" {
		return nil, domain.ErrInvalidInput
	}
	var mov *entity.MovimientoInventario
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		m, err := repos.MateriasPrimas.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		nuevoStock := m.Stock.Add(in.Cantidad)
		if nuevoStock.IsNegative() {
			return domain.ErrInsufficientStock
		}
		if err := repos.MateriasPrimas.UpdateStockCosto(ctx, m.ID, nuevoStock, m.Costo); err != nil {
			return err
		}
		mov = &entity.MovimientoInventario{
			ID:             uuid.New().String(),
			MateriaPrimaID: m.ID,
			Tipo:           entity.MovimientoAjuste,
			Cantidad:       in.Cantidad,
			CostoUnitario:  m.Costo,
			CostoTotal:     in.Cantidad.Mul(m.Costo).Round(2),
			StockResultado: nuevoStock,
			Origen:         entity.OrigenAjuste,
			Referencia:     strings.TrimSpace(in.Motivo),
			Fecha:          time.Now(),
			CreadoPor:      userID,
		}
		return repos.Movimientos.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	out := toMovimientoResponse(mov)
	return &out, nil
}

func toMateriaPrimaResponse(m *entity.MateriaPrima) *dto.MateriaPrimaResponse {
	return &dto.MateriaPrimaResponse{
		ID:           m.ID,
		Codigo:       m.Codigo,
		Nombre:       m.Nombre,
		Descripcion:  m.Descripcion,
		UnidadMedida: m.UnidadMedida,
		Costo:        m.Costo,
		Stock:        m.Stock,
		StockMinimo:  m.StockMinimo,
		BajoMinimo:   m.BajoMinimo(),
		Activo:       m.Activo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toMovimientoResponse(m *entity.MovimientoInventario) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:             m.ID,
		MateriaPrimaID: m.MateriaPrimaID,
		Tipo:           m.Tipo,
		Cantidad:       m.Cantidad,
		CostoUnitario:  m.CostoUnitario,
		CostoTotal:     m.CostoTotal,
		StockResultado: m.StockResultado,
		Origen:         m.Origen,
		Referencia:     m.Referencia,
		Fecha:          m.Fecha,
		CreadoPor:      m.CreadoPor,
	}
}
