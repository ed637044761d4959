// Package compras casos de uso de órdenes de compra: edición, estados, recepción, pagos y documentos.
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
	"github.com/jhoicas/erp-manufactura/internal/domain/compras"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

// OrdenCompraUseCase alta, edición y ciclo de vida de las órdenes OCM/OCA.
// Los totales siempre se recalculan aquí; los enviados por el cliente se ignoran.
type OrdenCompraUseCase struct {
	ordenRepo     repository.OrdenCompraRepository
	proveedorRepo repository.ProveedorRepository
	mpRepo        repository.MateriaPrimaRepository
	activoRepo    repository.ActivoRepository
	txRunner      ports.TxRunner
	trm           ports.TRMProvider
}

// NewOrdenCompraUseCase construye el caso de uso. trm puede ser nil: las órdenes en USD
// deberán traer la TRM explícita.
func NewOrdenCompraUseCase(
	ordenRepo repository.OrdenCompraRepository,
	proveedorRepo repository.ProveedorRepository,
	mpRepo repository.MateriaPrimaRepository,
	activoRepo repository.ActivoRepository,
	txRunner ports.TxRunner,
	trm ports.TRMProvider,
) *OrdenCompraUseCase {
	return &OrdenCompraUseCase{
		ordenRepo:     ordenRepo,
		proveedorRepo: proveedorRepo,
		mpRepo:        mpRepo,
		activoRepo:    activoRepo,
		txRunner:      txRunner,
		trm:           trm,
	}
}

// Calcular recálculo sin estado para el editor de líneas. No valida signos: el editor
// envía valores a medio digitar.
func (uc *OrdenCompraUseCase) Calcular(ctx context.Context, in dto.CalcularRequest) (*dto.CalcularResponse, error) {
	lineas := make([]compras.LineaEntrada, len(in.Items))
	for i, it := range in.Items {
		lineas[i] = compras.LineaEntrada{Cantidad: it.Cantidad, PrecioUnitario: it.PrecioUnitario, PorcentajeIVA: it.PorcentajeIVA}
	}
	trm, err := uc.resolverTRM(ctx, compras.Moneda(in.Moneda), in.TRM)
	if err != nil {
		return nil, err
	}
	t, err := compras.CalcularTotales(lineas, compras.Parametros{
		IVAHabilitado: in.IVAHabilitado,
		Moneda:        compras.Moneda(in.Moneda),
		TRM:           trm,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	out := &dto.CalcularResponse{
		Items:    make([]dto.LineaCalculadaResponse, len(t.Lineas)),
		Subtotal: t.Subtotal,
		TotalIVA: t.TotalIVA,
		Total:    t.Total,
		TotalCOP: t.TotalCOP,
	}
	for i, l := range t.Lineas {
		out.Items[i] = dto.LineaCalculadaResponse{Subtotal: l.Subtotal, IVA: l.IVA, Total: l.Total}
	}
	return out, nil
}

// Create crea la orden en PENDIENTE con el siguiente consecutivo del tipo.
func (uc *OrdenCompraUseCase) Create(ctx context.Context, userID string, in dto.OrdenCompraRequest) (*dto.OrdenCompraResponse, error) {
	tipo := entity.TipoOrden(in.Tipo)
	if !tipo.IsValid() {
		return nil, fmt.Errorf("%w: tipo de orden %q", domain.ErrInvalidInput, in.Tipo)
	}
	prov, err := uc.proveedorActivo(ctx, in.ProveedorID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	o := &entity.OrdenCompra{
		ID:        uuid.New().String(),
		Tipo:      tipo,
		Estado:    entity.EstadoPendiente,
		CreadoPor: userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.aplicarRequest(ctx, o, in, now); err != nil {
		return nil, err
	}
	numero, err := uc.ordenRepo.NextNumero(ctx, tipo)
	if err != nil {
		return nil, err
	}
	o.Numero = numero
	if err := uc.ordenRepo.Create(ctx, o); err != nil {
		return nil, err
	}
	return toOrdenResponse(o, prov), nil
}

// Update reemplaza cabecera y líneas de una orden PENDIENTE. El tipo no cambia.
func (uc *OrdenCompraUseCase) Update(ctx context.Context, id string, in dto.OrdenCompraRequest) (*dto.OrdenCompraResponse, error) {
	prov, err := uc.proveedorActivo(ctx, in.ProveedorID)
	if err != nil {
		return nil, err
	}
	var out *entity.OrdenCompra
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := repos.OrdenesCompra.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !o.Editable() {
			return fmt.Errorf("%w: solo se editan órdenes PENDIENTE (estado actual %s)", domain.ErrInvalidState, o.Estado)
		}
		if string(o.Tipo) != in.Tipo {
			return fmt.Errorf("%w: el tipo de la orden no se puede cambiar", domain.ErrInvalidInput)
		}
		now := time.Now()
		if err := uc.aplicarRequest(ctx, o, in, now); err != nil {
			return err
		}
		o.UpdatedAt = now
		if err := repos.OrdenesCompra.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrdenResponse(out, prov), nil
}

// GetByID orden completa con su proveedor.
func (uc *OrdenCompraUseCase) GetByID(ctx context.Context, id string) (*dto.OrdenCompraResponse, error) {
	o, err := uc.ordenRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	prov, err := uc.proveedorRepo.GetByID(ctx, o.ProveedorID)
	if err != nil {
		return nil, err
	}
	return toOrdenResponse(o, prov), nil
}

// Search listado paginado con filtros de tipo, estado, proveedor, número y rango de emisión.
func (uc *OrdenCompraUseCase) Search(ctx context.Context, in dto.OrdenCompraSearchRequest) (*dto.ListResponse[dto.OrdenCompraResumenResponse], error) {
	in.DefaultPage()
	f := repository.OrdenCompraFilter{
		Tipo:        entity.TipoOrden(in.Tipo),
		Estado:      entity.EstadoOrden(in.Estado),
		ProveedorID: in.ProveedorID,
		Query:       strings.TrimSpace(in.Q),
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	var err error
	if f.Desde, err = parseFecha(in.Desde); err != nil {
		return nil, err
	}
	if f.Hasta, err = parseFecha(in.Hasta); err != nil {
		return nil, err
	}
	if f.Desde != nil && f.Hasta != nil && f.Hasta.Before(*f.Desde) {
		return nil, fmt.Errorf("%w: hasta es anterior a desde", domain.ErrInvalidInput)
	}
	list, total, err := uc.ordenRepo.Search(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrdenCompraResumenResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.OrdenCompraResumenResponse{
			ID:           r.ID,
			Numero:       r.Numero,
			Tipo:         r.Tipo,
			Estado:       r.Estado,
			ProveedorID:  r.ProveedorID,
			Proveedor:    r.Proveedor,
			Moneda:       r.Moneda,
			Total:        r.Total,
			TotalCOP:     r.TotalCOP,
			FechaEmision: r.FechaEmision,
		})
	}
	out := dto.NewListResponse(items, in.PageRequest, total)
	return &out, nil
}

// Liberar PENDIENTE → LIBERADA: la orden pasa a ser un documento.
func (uc *OrdenCompraUseCase) Liberar(ctx context.Context, id string) (*dto.OrdenCompraResponse, error) {
	return uc.transicionar(ctx, id, entity.EstadoLiberada, "")
}

// Enviar LIBERADA → ENVIADA: enviada al proveedor, habilita la recepción.
func (uc *OrdenCompraUseCase) Enviar(ctx context.Context, id string) (*dto.OrdenCompraResponse, error) {
	return uc.transicionar(ctx, id, entity.EstadoEnviada, "")
}

// Cerrar ENVIADA → CERRADA manual (cierre con saldo pendiente por recibir).
func (uc *OrdenCompraUseCase) Cerrar(ctx context.Context, id string) (*dto.OrdenCompraResponse, error) {
	return uc.transicionar(ctx, id, entity.EstadoCerrada, "")
}

// Cancelar exige motivo y que no se haya recibido mercancía.
func (uc *OrdenCompraUseCase) Cancelar(ctx context.Context, id string, in dto.CancelarOrdenRequest) (*dto.OrdenCompraResponse, error) {
	motivo := strings.TrimSpace(in.Motivo)
	if motivo == "" {
		return nil, fmt.Errorf("%w: el motivo de cancelación es obligatorio", domain.ErrInvalidInput)
	}
	return uc.transicionar(ctx, id, entity.EstadoCancelada, motivo)
}

func (uc *OrdenCompraUseCase) transicionar(ctx context.Context, id string, destino entity.EstadoOrden, motivo string) (*dto.OrdenCompraResponse, error) {
	var out *entity.OrdenCompra
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		o, err := repos.OrdenesCompra.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if !o.Estado.PuedeTransicionarA(destino) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidState, o.Estado, destino)
		}
		now := time.Now()
		switch destino {
		case entity.EstadoLiberada:
			if len(o.Items) == 0 {
				return fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidInput)
			}
			if !o.TieneCantidad() {
				return fmt.Errorf("%w: todas las líneas tienen cantidad cero", domain.ErrInvalidInput)
			}
			o.LiberadaAt = &now
		case entity.EstadoEnviada:
			o.EnviadaAt = &now
		case entity.EstadoCerrada:
			o.CerradaAt = &now
		case entity.EstadoCancelada:
			if !o.PuedeCancelarse() {
				return fmt.Errorf("%w: la orden ya tiene mercancía recibida", domain.ErrConflict)
			}
			o.CanceladaAt = &now
			o.MotivoCancelacion = motivo
		}
		o.Estado = destino
		o.UpdatedAt = now
		if err := repos.OrdenesCompra.UpdateEstado(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	prov, err := uc.proveedorRepo.GetByID(ctx, out.ProveedorID)
	if err != nil {
		return nil, err
	}
	return toOrdenResponse(out, prov), nil
}

func (uc *OrdenCompraUseCase) proveedorActivo(ctx context.Context, id string) (*entity.Proveedor, error) {
	p, err := uc.proveedorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: proveedor %s no existe", domain.ErrInvalidInput, id)
	}
	if !p.Activo {
		return nil, fmt.Errorf("%w: el proveedor %s está inactivo", domain.ErrInvalidInput, p.RazonSocial)
	}
	return p, nil
}

// aplicarRequest copia cabecera y líneas del request a la orden, valida y recalcula totales.
func (uc *OrdenCompraUseCase) aplicarRequest(ctx context.Context, o *entity.OrdenCompra, in dto.OrdenCompraRequest, now time.Time) error {
	moneda := compras.Moneda(in.Moneda)
	if !moneda.IsValid() {
		return fmt.Errorf("%w: moneda %q no soportada", domain.ErrInvalidInput, in.Moneda)
	}
	var trmIn decimal.Decimal
	if in.TRM != nil {
		trmIn = *in.TRM
	}
	trm, err := uc.resolverTRM(ctx, moneda, trmIn)
	if err != nil {
		return err
	}

	o.ProveedorID = in.ProveedorID
	o.Moneda = in.Moneda
	o.TRM = trm
	o.IVAHabilitado = in.IVAHabilitado == nil || *in.IVAHabilitado
	o.FechaEntrega = in.FechaEntrega
	o.CondicionPago = strings.TrimSpace(in.CondicionPago)
	o.Observaciones = in.Observaciones
	if in.FechaEmision != nil {
		o.FechaEmision = *in.FechaEmision
	} else if o.FechaEmision.IsZero() {
		o.FechaEmision = now
	}
	if o.FechaEntrega != nil && o.FechaEntrega.Before(truncDia(o.FechaEmision)) {
		return fmt.Errorf("%w: la fecha de entrega es anterior a la emisión", domain.ErrInvalidInput)
	}

	items := make([]entity.ItemOrdenCompra, len(in.Items))
	for i, it := range in.Items {
		item, err := uc.construirItem(ctx, o.Tipo, i+1, it)
		if err != nil {
			return err
		}
		item.OrdenID = o.ID
		items[i] = item
	}
	o.Items = items

	lineas := o.LineasCalculo()
	if err := compras.ValidarLineas(lineas); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	t, err := compras.CalcularTotales(lineas, o.ParametrosCalculo())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	o.AplicarTotales(t)
	return nil
}

// construirItem valida la referencia según el tipo de orden y completa descripción y unidad.
func (uc *OrdenCompraUseCase) construirItem(ctx context.Context, tipo entity.TipoOrden, n int, in dto.ItemOrdenRequest) (entity.ItemOrdenCompra, error) {
	item := entity.ItemOrdenCompra{
		ID:               uuid.New().String(),
		Linea:            n,
		Descripcion:      strings.TrimSpace(in.Descripcion),
		UnidadMedida:     strings.ToUpper(strings.TrimSpace(in.UnidadMedida)),
		Cantidad:         in.Cantidad,
		PrecioUnitario:   in.PrecioUnitario,
		PorcentajeIVA:    in.PorcentajeIVA,
		CantidadRecibida: decimal.Zero,
	}
	lineErr := func(campo, motivo string) error {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, &compras.ErrLinea{Linea: n, Campo: campo, Motivo: motivo})
	}
	switch tipo {
	case entity.TipoOCM:
		if in.ActivoID != nil {
			return item, lineErr("activo_id", "una OCM no referencia activos")
		}
		if in.MateriaPrimaID == nil || *in.MateriaPrimaID == "" {
			return item, lineErr("materia_prima_id", "obligatorio en órdenes de materiales")
		}
		mp, err := uc.mpRepo.GetByID(ctx, *in.MateriaPrimaID)
		if err != nil {
			return item, err
		}
		if mp == nil || !mp.Activo {
			return item, lineErr("materia_prima_id", "materia prima inexistente o inactiva")
		}
		item.MateriaPrimaID = &mp.ID
		if item.Descripcion == "" {
			item.Descripcion = mp.Nombre
		}
		if item.UnidadMedida == "" {
			item.UnidadMedida = mp.UnidadMedida
		}
	case entity.TipoOCA:
		if in.MateriaPrimaID != nil {
			return item, lineErr("materia_prima_id", "una OCA no referencia materias primas")
		}
		if in.ActivoID != nil && *in.ActivoID != "" {
			a, err := uc.activoRepo.GetByID(ctx, *in.ActivoID)
			if err != nil {
				return item, err
			}
			if a == nil {
				return item, lineErr("activo_id", "activo inexistente")
			}
			item.ActivoID = &a.ID
			if item.Descripcion == "" {
				item.Descripcion = a.Nombre
			}
		}
		if item.Descripcion == "" {
			return item, lineErr("descripcion", "obligatoria si la línea no referencia un activo")
		}
		if item.UnidadMedida == "" {
			item.UnidadMedida = "UND"
		}
	}
	return item, nil
}

// resolverTRM devuelve la TRM a usar: la explícita si es positiva; para USD sin TRM consulta
// el proveedor de TRM. En COP la TRM no aplica y se guarda en cero.
func (uc *OrdenCompraUseCase) resolverTRM(ctx context.Context, moneda compras.Moneda, trm decimal.Decimal) (decimal.Decimal, error) {
	if moneda != compras.MonedaUSD {
		return decimal.Zero, nil
	}
	if trm.IsPositive() {
		return trm, nil
	}
	if uc.trm == nil {
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrInvalidInput,
			&compras.ErrLinea{Campo: "trm", Motivo: "obligatoria para órdenes en USD"})
	}
	actual, err := uc.trm.Actual(ctx)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: no fue posible obtener la TRM, envíela explícitamente: %v", domain.ErrInvalidInput, err)
	}
	return actual.Valor, nil
}

func parseFecha(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: fecha %q, formato esperado AAAA-MM-DD", domain.ErrInvalidInput, s)
	}
	return &t, nil
}

func truncDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func toOrdenResponse(o *entity.OrdenCompra, p *entity.Proveedor) *dto.OrdenCompraResponse {
	out := &dto.OrdenCompraResponse{
		ID:                o.ID,
		Numero:            o.Numero,
		Tipo:              string(o.Tipo),
		Estado:            string(o.Estado),
		Proveedor:         dto.ProveedorResumen{ID: o.ProveedorID},
		Moneda:            o.Moneda,
		TRM:               o.TRM,
		IVAHabilitado:     o.IVAHabilitado,
		FechaEmision:      o.FechaEmision,
		FechaEntrega:      o.FechaEntrega,
		CondicionPago:     o.CondicionPago,
		Observaciones:     o.Observaciones,
		Subtotal:          o.Subtotal,
		TotalIVA:          o.TotalIVA,
		Total:             o.Total,
		TotalCOP:          o.TotalCOP,
		CreadoPor:         o.CreadoPor,
		LiberadaAt:        o.LiberadaAt,
		EnviadaAt:         o.EnviadaAt,
		CerradaAt:         o.CerradaAt,
		CanceladaAt:       o.CanceladaAt,
		MotivoCancelacion: o.MotivoCancelacion,
		Editable:          o.Editable(),
		Items:             make([]dto.ItemOrdenResponse, 0, len(o.Items)),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}
	if p != nil {
		out.Proveedor.NIT = p.NIT
		out.Proveedor.RazonSocial = p.RazonSocial
	}
	for i := range o.Items {
		it := &o.Items[i]
		out.Items = append(out.Items, dto.ItemOrdenResponse{
			ID:               it.ID,
			Linea:            it.Linea,
			MateriaPrimaID:   it.MateriaPrimaID,
			ActivoID:         it.ActivoID,
			Descripcion:      it.Descripcion,
			UnidadMedida:     it.UnidadMedida,
			Cantidad:         it.Cantidad,
			PrecioUnitario:   it.PrecioUnitario,
			PorcentajeIVA:    it.PorcentajeIVA,
			Subtotal:         it.Subtotal,
			ValorIVA:         it.ValorIVA,
			Total:            it.Total,
			CantidadRecibida: it.CantidadRecibida,
			Pendiente:        it.Pendiente(),
		})
	}
	return out
}
