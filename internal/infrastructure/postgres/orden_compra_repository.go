package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
	"github.com/jhoicas/erp-manufactura/pkg/texto"
)

var _ repository.OrdenCompraRepository = (*OrdenCompraRepo)(nil)

// OrdenCompraRepo implementación de OrdenCompraRepository (usable con pool o tx).
// Create y Update escriben varias tablas: invocarlos dentro de TxRunner.Run.
type OrdenCompraRepo struct {
	q Querier
}

// NewOrdenCompraRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrdenCompraRepository(q Querier) *OrdenCompraRepo {
	return &OrdenCompraRepo{q: q}
}

var secuenciasOrden = map[entity.TipoOrden]string{
	entity.TipoOCM: "seq_ocm",
	entity.TipoOCA: "seq_oca",
}

// NextNumero reserva el consecutivo del tipo: OCM-000001, OCA-000001...
func (r *OrdenCompraRepo) NextNumero(ctx context.Context, tipo entity.TipoOrden) (string, error) {
	seq, ok := secuenciasOrden[tipo]
	if !ok {
		return "", fmt.Errorf("%w: tipo de orden %q", domain.ErrInvalidInput, tipo)
	}
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('`+seq+`')`).Scan(&n); err != nil {
		return "", fmt.Errorf("nextval %s: %w", seq, err)
	}
	return fmt.Sprintf("%s-%06d", tipo, n), nil
}

const ordenCompraColumns = `
	id, numero, tipo, proveedor_id, estado, moneda, trm, iva_habilitado, fecha_emision, fecha_entrega,
	condicion_pago, observaciones, subtotal, total_iva, total, total_cop, creado_por,
	liberada_at, enviada_at, cerrada_at, cancelada_at, motivo_cancelacion, created_at, updated_at`

// Create inserta cabecera y líneas.
func (r *OrdenCompraRepo) Create(ctx context.Context, o *entity.OrdenCompra) error {
	query := `
		INSERT INTO ordenes_compra (` + ordenCompraColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Numero, string(o.Tipo), o.ProveedorID, string(o.Estado), o.Moneda, o.TRM, o.IVAHabilitado,
		o.FechaEmision, o.FechaEntrega, o.CondicionPago, o.Observaciones,
		o.Subtotal, o.TotalIVA, o.Total, o.TotalCOP, o.CreadoPor,
		o.LiberadaAt, o.EnviadaAt, o.CerradaAt, o.CanceladaAt, o.MotivoCancelacion, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert orden compra", err)
	}
	return r.insertItems(ctx, o)
}

func (r *OrdenCompraRepo) insertItems(ctx context.Context, o *entity.OrdenCompra) error {
	if len(o.Items) == 0 {
		return nil
	}
	b := psql.Insert("items_orden_compra").Columns(
		"id", "orden_id", "linea", "materia_prima_id", "activo_id", "descripcion", "unidad_medida",
		"cantidad", "precio_unitario", "porcentaje_iva", "subtotal", "valor_iva", "total", "cantidad_recibida",
	)
	for _, it := range o.Items {
		b = b.Values(it.ID, o.ID, it.Linea, it.MateriaPrimaID, it.ActivoID, it.Descripcion, it.UnidadMedida,
			it.Cantidad, it.PrecioUnitario, it.PorcentajeIVA, it.Subtotal, it.ValorIVA, it.Total, it.CantidadRecibida)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert items orden compra", err)
	}
	return nil
}

// GetByID cabecera + líneas ordenadas por número de línea.
func (r *OrdenCompraRepo) GetByID(ctx context.Context, id string) (*entity.OrdenCompra, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera (SELECT FOR UPDATE).
func (r *OrdenCompraRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrdenCompra, error) {
	return r.get(ctx, id, true)
}

func (r *OrdenCompraRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.OrdenCompra, error) {
	query := `SELECT ` + ordenCompraColumns + ` FROM ordenes_compra WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var (
		o            entity.OrdenCompra
		tipo, estado string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.Numero, &tipo, &o.ProveedorID, &estado, &o.Moneda, &o.TRM, &o.IVAHabilitado,
		&o.FechaEmision, &o.FechaEntrega, &o.CondicionPago, &o.Observaciones,
		&o.Subtotal, &o.TotalIVA, &o.Total, &o.TotalCOP, &o.CreadoPor,
		&o.LiberadaAt, &o.EnviadaAt, &o.CerradaAt, &o.CanceladaAt, &o.MotivoCancelacion, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orden compra: %w", err)
	}
	o.Tipo = entity.TipoOrden(tipo)
	o.Estado = entity.EstadoOrden(estado)

	items, err := r.listItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrdenCompraRepo) listItems(ctx context.Context, ordenID string) ([]entity.ItemOrdenCompra, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, orden_id, linea, materia_prima_id, activo_id, descripcion, unidad_medida,
		       cantidad, precio_unitario, porcentaje_iva, subtotal, valor_iva, total, cantidad_recibida
		FROM items_orden_compra WHERE orden_id = $1 ORDER BY linea`, ordenID)
	if err != nil {
		return nil, fmt.Errorf("list items orden compra: %w", err)
	}
	defer rows.Close()
	var items []entity.ItemOrdenCompra
	for rows.Next() {
		var it entity.ItemOrdenCompra
		if err := rows.Scan(&it.ID, &it.OrdenID, &it.Linea, &it.MateriaPrimaID, &it.ActivoID, &it.Descripcion,
			&it.UnidadMedida, &it.Cantidad, &it.PrecioUnitario, &it.PorcentajeIVA, &it.Subtotal, &it.ValorIVA,
			&it.Total, &it.CantidadRecibida); err != nil {
			return nil, fmt.Errorf("scan item orden compra: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Update reemplaza cabecera editable y todas las líneas.
func (r *OrdenCompraRepo) Update(ctx context.Context, o *entity.OrdenCompra) error {
	_, err := r.q.Exec(ctx, `
		UPDATE ordenes_compra SET
			proveedor_id = $2, moneda = $3, trm = $4, iva_habilitado = $5, fecha_emision = $6,
			fecha_entrega = $7, condicion_pago = $8, observaciones = $9,
			subtotal = $10, total_iva = $11, total = $12, total_cop = $13, updated_at = $14
		WHERE id = $1`,
		o.ID, o.ProveedorID, o.Moneda, o.TRM, o.IVAHabilitado, o.FechaEmision,
		o.FechaEntrega, o.CondicionPago, o.Observaciones,
		o.Subtotal, o.TotalIVA, o.Total, o.TotalCOP, o.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update orden compra", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM items_orden_compra WHERE orden_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete items orden compra: %w", err)
	}
	return r.insertItems(ctx, o)
}

// UpdateEstado persiste estado, marcas de tiempo y motivo de cancelación.
func (r *OrdenCompraRepo) UpdateEstado(ctx context.Context, o *entity.OrdenCompra) error {
	_, err := r.q.Exec(ctx, `
		UPDATE ordenes_compra SET
			estado = $2, trm = $3, total_cop = $4, liberada_at = $5, enviada_at = $6, cerrada_at = $7,
			cancelada_at = $8, motivo_cancelacion = $9, updated_at = $10
		WHERE id = $1`,
		o.ID, string(o.Estado), o.TRM, o.TotalCOP, o.LiberadaAt, o.EnviadaAt, o.CerradaAt,
		o.CanceladaAt, o.MotivoCancelacion, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update estado orden compra: %w", err)
	}
	return nil
}

// UpdateCantidadRecibida fija la cantidad acumulada recibida de una línea.
func (r *OrdenCompraRepo) UpdateCantidadRecibida(ctx context.Context, itemID string, cantidad decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE items_orden_compra SET cantidad_recibida = $2 WHERE id = $1`, itemID, cantidad)
	if err != nil {
		return fmt.Errorf("update cantidad recibida: %w", err)
	}
	return nil
}

// Search listado paginado con filtros (tipo, estado, proveedor, número, rango de fechas).
func (r *OrdenCompraRepo) Search(ctx context.Context, f repository.OrdenCompraFilter) ([]repository.OrdenCompraResumen, int, error) {
	base := searchOrdenesQuery(f)

	total, err := selectCount(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := page(base.OrderBy("o.fecha_emision DESC", "o.numero DESC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search ordenes compra: %w", err)
	}
	var out []repository.OrdenCompraResumen
	if err := pgxscan.Select(ctx, r.q, &out, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("search ordenes compra: %w", err)
	}
	return out, total, nil
}

// searchOrdenesQuery filtros del listado. Hasta incluye el día completo.
func searchOrdenesQuery(f repository.OrdenCompraFilter) squirrel.SelectBuilder {
	base := psql.Select(
		"o.id", "o.numero", "o.tipo", "o.estado", "o.proveedor_id", "p.razon_social AS proveedor",
		"o.moneda", "o.total", "o.total_cop", "o.fecha_emision",
	).From("ordenes_compra o").Join("proveedores p ON p.id = o.proveedor_id")

	if f.Tipo != "" {
		base = base.Where(squirrel.Eq{"o.tipo": string(f.Tipo)})
	}
	if f.Estado != "" {
		base = base.Where(squirrel.Eq{"o.estado": string(f.Estado)})
	}
	if f.ProveedorID != "" {
		base = base.Where(squirrel.Eq{"o.proveedor_id": f.ProveedorID})
	}
	if f.Query != "" {
		pattern := texto.LikePattern(f.Query)
		base = base.Where(squirrel.Or{
			squirrel.Expr("lower(o.numero) LIKE ?", pattern),
			squirrel.Expr("p.search_key LIKE ?", pattern),
		})
	}
	if f.Desde != nil {
		base = base.Where(squirrel.GtOrEq{"o.fecha_emision": *f.Desde})
	}
	if f.Hasta != nil {
		base = base.Where(squirrel.Lt{"o.fecha_emision": f.Hasta.AddDate(0, 0, 1)})
	}
	return base
}
