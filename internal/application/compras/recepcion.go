package compras

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
	"github.com/jhoicas/erp-manufactura/internal/domain/inventario"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

// RecepcionUseCase asistente de recepción de mercancía: vista previa y confirmación.
type RecepcionUseCase struct {
	ordenRepo     repository.OrdenCompraRepository
	mpRepo        repository.MateriaPrimaRepository
	recepcionRepo repository.RecepcionRepository
	txRunner      ports.TxRunner
}

// NewRecepcionUseCase construye el caso de uso.
func NewRecepcionUseCase(
	ordenRepo repository.OrdenCompraRepository,
	mpRepo repository.MateriaPrimaRepository,
	recepcionRepo repository.RecepcionRepository,
	txRunner ports.TxRunner,
) *RecepcionUseCase {
	return &RecepcionUseCase{ordenRepo: ordenRepo, mpRepo: mpRepo, recepcionRepo: recepcionRepo, txRunner: txRunner}
}

// lineaPlan efecto calculado de recibir una línea.
type lineaPlan struct {
	item       *entity.ItemOrdenCompra
	cantidad   decimal.Decimal
	costoCOP   decimal.Decimal
	mp         *entity.MateriaPrima // nil en OCA
	stockAntes decimal.Decimal
	costoAntes decimal.Decimal
	stockNuevo decimal.Decimal
	costoNuevo decimal.Decimal
}

type plan struct {
	lineas      []lineaPlan
	cierraOrden bool
}

type getMateriaPrima func(ctx context.Context, id string) (*entity.MateriaPrima, error)

// planear valida la recepción y calcula cantidades y costos sin persistir nada.
// Si la misma materia prima aparece en varias líneas el costo promedio se encadena.
func planear(ctx context.Context, o *entity.OrdenCompra, in []dto.LineaRecepcionRequest, getMP getMateriaPrima) (*plan, error) {
	if o.Estado != entity.EstadoEnviada {
		return nil, fmt.Errorf("%w: solo se recibe mercancía de órdenes ENVIADA (estado actual %s)", domain.ErrInvalidState, o.Estado)
	}
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: la recepción no tiene líneas", domain.ErrInvalidInput)
	}
	vistos := make(map[string]bool, len(in))
	recibido := make(map[string]decimal.Decimal, len(in))
	mps := map[string]*entity.MateriaPrima{}
	p := &plan{lineas: make([]lineaPlan, 0, len(in))}

	for _, l := range in {
		if vistos[l.ItemID] {
			return nil, fmt.Errorf("%w: la línea %s está repetida", domain.ErrInvalidInput, l.ItemID)
		}
		vistos[l.ItemID] = true
		item := o.Item(l.ItemID)
		if item == nil {
			return nil, fmt.Errorf("%w: la línea %s no pertenece a la orden %s", domain.ErrInvalidInput, l.ItemID, o.Numero)
		}
		if !l.Cantidad.IsPositive() {
			return nil, fmt.Errorf("%w: línea %d, la cantidad a recibir debe ser mayor que cero", domain.ErrInvalidInput, item.Linea)
		}
		if l.Cantidad.GreaterThan(item.Pendiente()) {
			return nil, fmt.Errorf("%w: línea %d, se reciben %s y solo hay %s pendientes",
				domain.ErrInvalidInput, item.Linea, l.Cantidad, item.Pendiente())
		}
		lp := lineaPlan{
			item:     item,
			cantidad: l.Cantidad,
			costoCOP: inventario.CostoUnitarioCOP(item.PrecioUnitario, o.Moneda, o.TRM),
		}
		if o.Tipo == entity.TipoOCM && item.MateriaPrimaID != nil {
			mp, ok := mps[*item.MateriaPrimaID]
			if !ok {
				var err error
				mp, err = getMP(ctx, *item.MateriaPrimaID)
				if err != nil {
					return nil, err
				}
				if mp == nil {
					return nil, fmt.Errorf("%w: materia prima %s", domain.ErrNotFound, *item.MateriaPrimaID)
				}
				mps[mp.ID] = mp
			}
			lp.mp = mp
			lp.stockAntes, lp.costoAntes = mp.Stock, mp.Costo
			lp.costoNuevo = inventario.CostoPromedioPonderado(mp.Stock, mp.Costo, l.Cantidad, lp.costoCOP)
			lp.stockNuevo = mp.Stock.Add(l.Cantidad)
			mp.Stock, mp.Costo = lp.stockNuevo, lp.costoNuevo
		}
		recibido[item.ID] = l.Cantidad
		p.lineas = append(p.lineas, lp)
	}

	p.cierraOrden = o.QuedaCompleta(recibido)
	return p, nil
}

// Preview paso 1: valida y muestra el efecto de la recepción sin persistir.
func (uc *RecepcionUseCase) Preview(ctx context.Context, ordenID string, in dto.PreviewRecepcionRequest) (*dto.PreviewRecepcionResponse, error) {
	o, err := uc.ordenRepo.GetByID(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	p, err := planear(ctx, o, in.Lineas, uc.mpRepo.GetByID)
	if err != nil {
		return nil, err
	}
	out := &dto.PreviewRecepcionResponse{
		OrdenID:     o.ID,
		Numero:      o.Numero,
		Lineas:      make([]dto.LineaPreviewResponse, 0, len(p.lineas)),
		CierraOrden: p.cierraOrden,
	}
	for _, l := range p.lineas {
		out.Lineas = append(out.Lineas, dto.LineaPreviewResponse{
			ItemID:           l.item.ID,
			Linea:            l.item.Linea,
			Descripcion:      l.item.Descripcion,
			MateriaPrimaID:   l.item.MateriaPrimaID,
			Pendiente:        l.item.Pendiente(),
			ARecibir:         l.cantidad,
			Restante:         l.item.Pendiente().Sub(l.cantidad),
			CostoUnitarioCOP: l.costoCOP,
			StockActual:      l.stockAntes,
			CostoActual:      l.costoAntes,
			StockResultante:  l.stockNuevo,
			CostoResultante:  l.costoNuevo,
		})
	}
	return out, nil
}

// Confirmar paso 2: en una transacción bloquea la orden y las materias primas, actualiza costo
// promedio y stock, registra las ENTRADAS y la recepción. Si no queda nada pendiente la orden
// pasa a CERRADA. Las OCA no generan movimientos de inventario.
func (uc *RecepcionUseCase) Confirmar(ctx context.Context, userID, ordenID string, in dto.ConfirmarRecepcionRequest) (*dto.RecepcionResponse, error) {
	var rec *entity.Recepcion
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := repos.OrdenesCompra.GetForUpdate(ctx, ordenID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		p, err := planear(ctx, o, in.Lineas, repos.MateriasPrimas.GetForUpdate)
		if err != nil {
			return err
		}
		now := time.Now()
		rec = &entity.Recepcion{
			ID:            uuid.New().String(),
			OrdenCompraID: o.ID,
			FacturaNumero: strings.TrimSpace(in.FacturaNumero),
			Observaciones: in.Observaciones,
			RecibidoPor:   userID,
			Fecha:         now,
			CerroOrden:    p.cierraOrden,
			Items:         make([]entity.ItemRecepcion, 0, len(p.lineas)),
		}
		referencia := o.Numero
		if rec.FacturaNumero != "" {
			referencia += " / " + rec.FacturaNumero
		}
		for _, l := range p.lineas {
			l.item.CantidadRecibida = l.item.CantidadRecibida.Add(l.cantidad)
			if err := repos.OrdenesCompra.UpdateCantidadRecibida(ctx, l.item.ID, l.item.CantidadRecibida); err != nil {
				return err
			}
			rec.Items = append(rec.Items, entity.ItemRecepcion{
				ID:               uuid.New().String(),
				RecepcionID:      rec.ID,
				ItemOrdenID:      l.item.ID,
				MateriaPrimaID:   l.item.MateriaPrimaID,
				Cantidad:         l.cantidad,
				CostoUnitarioCOP: l.costoCOP,
			})
			if l.mp == nil {
				continue
			}
			if err := repos.MateriasPrimas.UpdateStockCosto(ctx, l.mp.ID, l.stockNuevo, l.costoNuevo); err != nil {
				return err
			}
			if err := repos.Movimientos.Create(ctx, &entity.MovimientoInventario{
				ID:             uuid.New().String(),
				MateriaPrimaID: l.mp.ID,
				Tipo:           entity.MovimientoEntrada,
				Cantidad:       l.cantidad,
				CostoUnitario:  l.costoCOP,
				CostoTotal:     l.cantidad.Mul(l.costoCOP).Round(2),
				StockResultado: l.stockNuevo,
				Origen:         entity.OrigenRecepcion,
				Referencia:     referencia,
				Fecha:          now,
				CreadoPor:      userID,
			}); err != nil {
				return err
			}
		}
		if err := repos.Recepciones.Create(ctx, rec); err != nil {
			return err
		}
		if p.cierraOrden {
			o.Estado = entity.EstadoCerrada
			o.CerradaAt = &now
			o.UpdatedAt = now
			if err := repos.OrdenesCompra.UpdateEstado(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toRecepcionResponse(rec), nil
}

// List recepciones registradas de una orden.
func (uc *RecepcionUseCase) List(ctx context.Context, ordenID string) ([]dto.RecepcionResponse, error) {
	o, err := uc.ordenRepo.GetByID(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.recepcionRepo.ListByOrden(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RecepcionResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRecepcionResponse(r))
	}
	return out, nil
}

func toRecepcionResponse(r *entity.Recepcion) *dto.RecepcionResponse {
	out := &dto.RecepcionResponse{
		ID:            r.ID,
		OrdenCompraID: r.OrdenCompraID,
		FacturaNumero: r.FacturaNumero,
		Observaciones: r.Observaciones,
		RecibidoPor:   r.RecibidoPor,
		Fecha:         r.Fecha,
		CerroOrden:    r.CerroOrden,
		Items:         make([]dto.ItemRecepcionResponse, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, dto.ItemRecepcionResponse{
			ItemOrdenID:      it.ItemOrdenID,
			MateriaPrimaID:   it.MateriaPrimaID,
			Cantidad:         it.Cantidad,
			CostoUnitarioCOP: it.CostoUnitarioCOP,
		})
	}
	return out
}
