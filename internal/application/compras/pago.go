package compras

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-manufactura/internal/application/dto"
	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

// PagoUseCase abonos a proveedores contra órdenes de compra emitidas.
type PagoUseCase struct {
	ordenRepo repository.OrdenCompraRepository
	pagoRepo  repository.PagoRepository
	txRunner  ports.TxRunner
}

// NewPagoUseCase construye el caso de uso.
func NewPagoUseCase(ordenRepo repository.OrdenCompraRepository, pagoRepo repository.PagoRepository, txRunner ports.TxRunner) *PagoUseCase {
	return &PagoUseCase{ordenRepo: ordenRepo, pagoRepo: pagoRepo, txRunner: txRunner}
}

// Registrar agrega un pago en COP. La suma de pagos no puede superar el TotalCOP de la orden;
// la orden se bloquea para serializar pagos concurrentes.
func (uc *PagoUseCase) Registrar(ctx context.Context, userID, ordenID string, in dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	if !in.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: el valor del pago debe ser mayor que cero", domain.ErrInvalidInput)
	}
	switch in.Metodo {
	case entity.MetodoTransferencia, entity.MetodoCheque, entity.MetodoEfectivo:
	default:
		return nil, fmt.Errorf("%w: método de pago %q", domain.ErrInvalidInput, in.Metodo)
	}
	var pago *entity.Pago
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := repos.OrdenesCompra.GetForUpdate(ctx, ordenID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !o.Estado.EsDocumento() {
			return fmt.Errorf("%w: no se registran pagos a órdenes en estado %s", domain.ErrInvalidState, o.Estado)
		}
		pagado, err := repos.Pagos.SumByOrden(ctx, o.ID)
		if err != nil {
			return err
		}
		if pagado.Add(in.Valor).GreaterThan(o.TotalCOP) {
			return fmt.Errorf("%w: el pago excede el saldo de la orden (%s)", domain.ErrConflict, o.TotalCOP.Sub(pagado).StringFixed(2))
		}
		now := time.Now()
		fecha := now
		if in.Fecha != nil {
			fecha = *in.Fecha
		}
		pago = &entity.Pago{
			ID:            uuid.New().String(),
			OrdenCompraID: o.ID,
			Fecha:         fecha,
			Valor:         in.Valor,
			Metodo:        in.Metodo,
			Referencia:    strings.TrimSpace(in.Referencia),
			RegistradoPor: userID,
			CreatedAt:     now,
		}
		return repos.Pagos.Create(ctx, pago)
	})
	if err != nil {
		return nil, err
	}
	out := toPagoResponse(pago)
	return &out, nil
}

// EstadoCuenta total, pagado y saldo de la orden con el detalle de pagos.
func (uc *PagoUseCase) EstadoCuenta(ctx context.Context, ordenID string) (*dto.EstadoCuentaResponse, error) {
	o, err := uc.ordenRepo.GetByID(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	pagos, err := uc.pagoRepo.ListByOrden(ctx, ordenID)
	if err != nil {
		return nil, err
	}
	out := &dto.EstadoCuentaResponse{
		OrdenCompraID: o.ID,
		Numero:        o.Numero,
		TotalCOP:      o.TotalCOP,
		Pagos:         make([]dto.PagoResponse, 0, len(pagos)),
	}
	for _, p := range pagos {
		out.Pagado = out.Pagado.Add(p.Valor)
		out.Pagos = append(out.Pagos, toPagoResponse(p))
	}
	out.Saldo = o.TotalCOP.Sub(out.Pagado)
	return out, nil
}

func toPagoResponse(p *entity.Pago) dto.PagoResponse {
	return dto.PagoResponse{
		ID:            p.ID,
		OrdenCompraID: p.OrdenCompraID,
		Fecha:         p.Fecha,
		Valor:         p.Valor,
		Metodo:        p.Metodo,
		Referencia:    p.Referencia,
		RegistradoPor: p.RegistradoPor,
	}
}
