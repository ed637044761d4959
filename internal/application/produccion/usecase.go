// Package produccion casos de uso de órdenes de producción: planeación, inicio con verificación
// de stock, consumo de insumos al terminar y calendario de programación.
package produccion

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
)

// OrdenProduccionUseCase ciclo de vida PLANEADA → EN_PROCESO → TERMINADA (o CANCELADA).
type OrdenProduccionUseCase struct {
	repo     repository.OrdenProduccionRepository
	mpRepo   repository.MateriaPrimaRepository
	txRunner ports.TxRunner
}

// NewOrdenProduccionUseCase construye el caso de uso.
func NewOrdenProduccionUseCase(
	repo repository.OrdenProduccionRepository,
	mpRepo repository.MateriaPrimaRepository,
	txRunner ports.TxRunner,
) *OrdenProduccionUseCase {
	return &OrdenProduccionUseCase{repo: repo, mpRepo: mpRepo, txRunner: txRunner}
}

// Create registra la orden en PLANEADA. Cada materia prima aparece una sola vez en los insumos.
func (uc *OrdenProduccionUseCase) Create(ctx context.Context, userID string, in dto.CreateOrdenProduccionRequest) (*dto.OrdenProduccionResponse, error) {
	if !in.Cantidad.IsPositive() {
		return nil, fmt.Errorf("%w: la cantidad a producir debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if in.FechaFinPlan.Before(in.FechaInicioPlan) {
		return nil, fmt.Errorf("%w: la fecha fin es anterior a la fecha de inicio", domain.ErrInvalidInput)
	}
	if len(in.Insumos) == 0 {
		return nil, fmt.Errorf("%w: la orden debe tener al menos un insumo", domain.ErrInvalidInput)
	}
	now := time.Now()
	o := &entity.OrdenProduccion{
		ID:              uuid.New().String(),
		Producto:        strings.TrimSpace(in.Producto),
		Cantidad:        in.Cantidad,
		Estado:          entity.ProduccionPlaneada,
		FechaInicioPlan: in.FechaInicioPlan,
		FechaFinPlan:    in.FechaFinPlan,
		Observaciones:   in.Observaciones,
		CreadoPor:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
		Insumos:         make([]entity.InsumoProduccion, 0, len(in.Insumos)),
	}
	vistos := map[string]bool{}
	for _, ins := range in.Insumos {
		if vistos[ins.MateriaPrimaID] {
			return nil, fmt.Errorf("%w: materia prima %s repetida en los insumos", domain.ErrInvalidInput, ins.MateriaPrimaID)
		}
		vistos[ins.MateriaPrimaID] = true
		if !ins.CantidadRequerida.IsPositive() {
			return nil, fmt.Errorf("%w: la cantidad requerida debe ser mayor que cero", domain.ErrInvalidInput)
		}
		mp, err := uc.mpRepo.GetByID(ctx, ins.MateriaPrimaID)
		if err != nil {
			return nil, err
		}
		if mp == nil || !mp.Activo {
			return nil, fmt.Errorf("%w: materia prima %s inexistente o inactiva", domain.ErrInvalidInput, ins.MateriaPrimaID)
		}
		o.Insumos = append(o.Insumos, entity.InsumoProduccion{
			ID:                uuid.New().String(),
			OrdenID:           o.ID,
			MateriaPrimaID:    mp.ID,
			CantidadRequerida: ins.CantidadRequerida,
			CantidadConsumida: decimal.Zero,
		})
	}
	numero, err := uc.repo.NextNumero(ctx)
	if err != nil {
		return nil, err
	}
	o.Numero = numero
	if err := uc.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, o)
}

// GetByID orden con la disponibilidad actual de cada insumo.
func (uc *OrdenProduccionUseCase) GetByID(ctx context.Context, id string) (*dto.OrdenProduccionResponse, error) {
	o, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(ctx, o)
}

// Search listado paginado (sin insumos).
func (uc *OrdenProduccionUseCase) Search(ctx context.Context, in dto.OrdenProduccionSearchRequest) (*dto.ListResponse[dto.OrdenProduccionResponse], error) {
	in.DefaultPage()
	list, total, err := uc.repo.Search(ctx, repository.OrdenProduccionFilter{
		Estado: entity.EstadoProduccion(in.Estado),
		Query:  strings.TrimSpace(in.Q),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrdenProduccionResponse, 0, len(list))
	for _, o := range list {
		items = append(items, toResumen(o))
	}
	out := dto.NewListResponse(items, in.PageRequest, total)
	return &out, nil
}

// Programacion órdenes no canceladas cuyo plan se cruza con la ventana [desde, hasta].
func (uc *OrdenProduccionUseCase) Programacion(ctx context.Context, in dto.ProgramacionRequest) ([]dto.OrdenProduccionResponse, error) {
	desde, err := time.ParseInLocation("2006-01-02", in.Desde, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: desde %q", domain.ErrInvalidInput, in.Desde)
	}
	hasta, err := time.ParseInLocation("2006-01-02", in.Hasta, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: hasta %q", domain.ErrInvalidInput, in.Hasta)
	}
	if hasta.Before(desde) {
		return nil, fmt.Errorf("%w: hasta es anterior a desde", domain.ErrInvalidInput)
	}
	// hasta inclusivo: hasta el último instante del día
	hasta = hasta.AddDate(0, 0, 1).Add(-time.Nanosecond)

	list, err := uc.repo.ListPlaneadasEntre(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrdenProduccionResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toResumen(o))
	}
	return out, nil
}

// Iniciar PLANEADA → EN_PROCESO. Verifica que el stock cubra cada insumo; no consume nada.
func (uc *OrdenProduccionUseCase) Iniciar(ctx context.Context, id string) (*dto.OrdenProduccionResponse, error) {
	var out *entity.OrdenProduccion
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := uc.cargarParaTransicion(ctx, repos, id, entity.ProduccionEnProceso)
		if err != nil {
			return err
		}
		var faltantes []string
		for _, ins := range o.Insumos {
			mp, err := repos.MateriasPrimas.GetForUpdate(ctx, ins.MateriaPrimaID)
			if err != nil {
				return err
			}
			if mp == nil {
				return fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, ins.MateriaPrimaID)
			}
			if mp.Stock.LessThan(ins.CantidadRequerida) {
				faltantes = append(faltantes, fmt.Sprintf("%s (faltan %s %s)", mp.Codigo, ins.CantidadRequerida.Sub(mp.Stock), mp.UnidadMedida))
			}
		}
		if len(faltantes) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrInsufficientStock, strings.Join(faltantes, ", "))
		}
		now := time.Now()
		o.Estado = entity.ProduccionEnProceso
		o.IniciadaAt = &now
		o.UpdatedAt = now
		if err := repos.OrdenesProduccion.UpdateEstado(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, out)
}

// Terminar EN_PROCESO → TERMINADA. Consume el saldo de cada insumo con una SALIDA al costo
// promedio vigente; si algún insumo no alcanza no se consume ninguno.
func (uc *OrdenProduccionUseCase) Terminar(ctx context.Context, userID, id string) (*dto.OrdenProduccionResponse, error) {
	var out *entity.OrdenProduccion
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := uc.cargarParaTransicion(ctx, repos, id, entity.ProduccionTerminada)
		if err != nil {
			return err
		}
		now := time.Now()
		for i := range o.Insumos {
			ins := &o.Insumos[i]
			pendiente := ins.CantidadRequerida.Sub(ins.CantidadConsumida)
			if !pendiente.IsPositive() {
				continue
			}
			mp, err := repos.MateriasPrimas.GetForUpdate(ctx, ins.MateriaPrimaID)
			if err != nil {
				return err
			}
			if mp == nil {
				return fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, ins.MateriaPrimaID)
			}
			if mp.Stock.LessThan(pendiente) {
				return fmt.Errorf("%w: %s tiene %s y se requieren %s", domain.ErrInsufficientStock, mp.Codigo, mp.Stock, pendiente)
			}
			nuevoStock := mp.Stock.Sub(pendiente)
			if err := repos.MateriasPrimas.UpdateStockCosto(ctx, mp.ID, nuevoStock, mp.Costo); err != nil {
				return err
			}
			if err := repos.Movimientos.Create(ctx, &entity.MovimientoInventario{
				ID:             uuid.New().String(),
				MateriaPrimaID: mp.ID,
				Tipo:           entity.MovimientoSalida,
				Cantidad:       pendiente,
				CostoUnitario:  mp.Costo,
				CostoTotal:     pendiente.Mul(mp.Costo).Round(2),
				StockResultado: nuevoStock,
				Origen:         entity.OrigenProduccion,
				Referencia:     o.Numero,
				Fecha:          now,
				CreadoPor:      userID,
			}); err != nil {
				return err
			}
			ins.CantidadConsumida = ins.CantidadRequerida
			if err := repos.OrdenesProduccion.UpdateConsumo(ctx, ins.ID, ins.CantidadConsumida); err != nil {
				return err
			}
		}
		o.Estado = entity.ProduccionTerminada
		o.TerminadaAt = &now
		o.UpdatedAt = now
		if err := repos.OrdenesProduccion.UpdateEstado(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, out)
}

// Cancelar PLANEADA o EN_PROCESO → CANCELADA. No devuelve ni consume insumos.
func (uc *OrdenProduccionUseCase) Cancelar(ctx context.Context, id string) (*dto.OrdenProduccionResponse, error) {
	var out *entity.OrdenProduccion
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := uc.cargarParaTransicion(ctx, repos, id, entity.ProduccionCancelada)
		if err != nil {
			return err
		}
		o.Estado = entity.ProduccionCancelada
		o.UpdatedAt = time.Now()
		if err := repos.OrdenesProduccion.UpdateEstado(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, out)
}

func (uc *OrdenProduccionUseCase) cargarParaTransicion(ctx context.Context, repos repository.TxRepos, id string, destino entity.EstadoProduccion) (*entity.OrdenProduccion, error) {
	o, err := repos.OrdenesProduccion.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !o.Estado.PuedeTransicionarA(destino) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalidState, o.Estado, destino)
	}
	return o, nil
}

func (uc *OrdenProduccionUseCase) toResponse(ctx context.Context, o *entity.OrdenProduccion) (*dto.OrdenProduccionResponse, error) {
	out := toResumen(o)
	out.Insumos = make([]dto.InsumoResponse, 0, len(o.Insumos))
	for _, ins := range o.Insumos {
		r := dto.InsumoResponse{
			ID:                ins.ID,
			MateriaPrimaID:    ins.MateriaPrimaID,
			CantidadRequerida: ins.CantidadRequerida,
			CantidadConsumida: ins.CantidadConsumida,
			StockDisponible:   decimal.Zero,
			Faltante:          decimal.Zero,
		}
		mp, err := uc.mpRepo.GetByID(ctx, ins.MateriaPrimaID)
		if err != nil {
			return nil, err
		}
		if mp != nil {
			r.Codigo, r.Nombre, r.StockDisponible = mp.Codigo, mp.Nombre, mp.Stock
		}
		if f := ins.CantidadRequerida.Sub(ins.CantidadConsumida).Sub(r.StockDisponible); f.IsPositive() {
			r.Faltante = f
		}
		out.Insumos = append(out.Insumos, r)
	}
	return &out, nil
}

func toResumen(o *entity.OrdenProduccion) dto.OrdenProduccionResponse {
	return dto.OrdenProduccionResponse{
		ID:              o.ID,
		Numero:          o.Numero,
		Producto:        o.Producto,
		Cantidad:        o.Cantidad,
		Estado:          string(o.Estado),
		FechaInicioPlan: o.FechaInicioPlan,
		FechaFinPlan:    o.FechaFinPlan,
		IniciadaAt:      o.IniciadaAt,
		TerminadaAt:     o.TerminadaAt,
		Observaciones:   o.Observaciones,
	}
}
