package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

var _ repository.OrdenProduccionRepository = (*OrdenProduccionRepo)(nil)

// OrdenProduccionRepo órdenes de producción e insumos (usable con pool o tx).
type OrdenProduccionRepo struct {
	q Querier
}

// NewOrdenProduccionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrdenProduccionRepository(q Querier) *OrdenProduccionRepo {
	return &OrdenProduccionRepo{q: q}
}

type ordenProduccionRow struct {
	ID              string          `db:"id"`
	Numero          string          `db:"numero"`
	Producto        string          `db:"producto"`
	Cantidad        decimal.Decimal `db:"cantidad"`
	Estado          string          `db:"estado"`
	FechaInicioPlan time.Time       `db:"fecha_inicio_plan"`
	FechaFinPlan    time.Time       `db:"fecha_fin_plan"`
	IniciadaAt      *time.Time      `db:"iniciada_at"`
	TerminadaAt     *time.Time      `db:"terminada_at"`
	Observaciones   string          `db:"observaciones"`
	CreadoPor       string          `db:"creado_por"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

var ordenProduccionColumns = []string{
	"id", "numero", "producto", "cantidad", "estado", "fecha_inicio_plan", "fecha_fin_plan",
	"iniciada_at", "terminada_at", "observaciones", "creado_por", "created_at", "updated_at",
}

func (o ordenProduccionRow) toEntity() *entity.OrdenProduccion {
	return &entity.OrdenProduccion{
		ID: o.ID, Numero: o.Numero, Producto: o.Producto, Cantidad: o.Cantidad,
		Estado: entity.EstadoProduccion(o.Estado), FechaInicioPlan: o.FechaInicioPlan, FechaFinPlan: o.FechaFinPlan,
		IniciadaAt: o.IniciadaAt, TerminadaAt: o.TerminadaAt, Observaciones: o.Observaciones,
		CreadoPor: o.CreadoPor, CreatedAt: o.CreatedAt, UpdatedAt: o.UpdatedAt,
	}
}

// NextNumero consecutivo OP-000001.
func (r *OrdenProduccionRepo) NextNumero(ctx context.Context) (string, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('seq_op')`).Scan(&n); err != nil {
		return "", fmt.Errorf("nextval seq_op: %w", err)
	}
	return fmt.Sprintf("OP-%06d", n), nil
}

// Create inserta la orden y sus insumos.
func (r *OrdenProduccionRepo) Create(ctx context.Context, o *entity.OrdenProduccion) error {
	sql, args, err := psql.Insert("ordenes_produccion").Columns(ordenProduccionColumns...).
		Values(o.ID, o.Numero, o.Producto, o.Cantidad, string(o.Estado), o.FechaInicioPlan, o.FechaFinPlan,
			o.IniciadaAt, o.TerminadaAt, o.Observaciones, o.CreadoPor, o.CreatedAt, o.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert orden produccion: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert orden produccion", err)
	}
	if len(o.Insumos) == 0 {
		return nil
	}
	b := psql.Insert("insumos_produccion").Columns(
		"id", "orden_id", "materia_prima_id", "cantidad_requerida", "cantidad_consumida")
	for _, in := range o.Insumos {
		b = b.Values(in.ID, o.ID, in.MateriaPrimaID, in.CantidadRequerida, in.CantidadConsumida)
	}
	sql, args, err = b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert insumos: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert insumos", err)
	}
	return nil
}

// GetByID orden con insumos.
func (r *OrdenProduccionRepo) GetByID(ctx context.Context, id string) (*entity.OrdenProduccion, error) {
	return r.get(ctx, psql.Select(ordenProduccionColumns...).From("ordenes_produccion").Where(squirrel.Eq{"id": id}))
}

// GetForUpdate orden con insumos, bloqueando la cabecera.
func (r *OrdenProduccionRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrdenProduccion, error) {
	return r.get(ctx, psql.Select(ordenProduccionColumns...).From("ordenes_produccion").
		Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *OrdenProduccionRepo) get(ctx context.Context, b squirrel.SelectBuilder) (*entity.OrdenProduccion, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get orden produccion: %w", err)
	}
	var row ordenProduccionRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orden produccion: %w", err)
	}
	o := row.toEntity()

	rows, err := r.q.Query(ctx, `
		SELECT id, orden_id, materia_prima_id, cantidad_requerida, cantidad_consumida
		FROM insumos_produccion WHERE orden_id = $1 ORDER BY id`, o.ID)
	if err != nil {
		return nil, fmt.Errorf("list insumos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var in entity.InsumoProduccion
		if err := rows.Scan(&in.ID, &in.OrdenID, &in.MateriaPrimaID, &in.CantidadRequerida, &in.CantidadConsumida); err != nil {
			return nil, fmt.Errorf("scan insumo: %w", err)
		}
		o.Insumos = append(o.Insumos, in)
	}
	return o, rows.Err()
}

// UpdateEstado persiste estado y marcas de tiempo.
func (r *OrdenProduccionRepo) UpdateEstado(ctx context.Context, o *entity.OrdenProduccion) error {
	_, err := r.q.Exec(ctx, `
		UPDATE ordenes_produccion SET estado = $2, iniciada_at = $3, terminada_at = $4, updated_at = $5
		WHERE id = $1`, o.ID, string(o.Estado), o.IniciadaAt, o.TerminadaAt, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update estado orden produccion: %w", err)
	}
	return nil
}

// UpdateConsumo fija la cantidad consumida de un insumo.
func (r *OrdenProduccionRepo) UpdateConsumo(ctx context.Context, insumoID string, consumida decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `UPDATE insumos_produccion SET cantidad_consumida = $2 WHERE id = $1`, insumoID, consumida)
	if err != nil {
		return fmt.Errorf("update consumo insumo: %w", err)
	}
	return nil
}

// Search listado paginado (sin insumos).
func (r *OrdenProduccionRepo) Search(ctx context.Context, f repository.OrdenProduccionFilter) ([]*entity.OrdenProduccion, int, error) {
	base := psql.Select(ordenProduccionColumns...).From("ordenes_produccion")
	if f.Estado != "" {
		base = base.Where(squirrel.Eq{"estado": string(f.Estado)})
	}
	if f.Query != "" {
		base = base.Where(squirrel.Or{
			squirrel.ILike{"numero": "%" + f.Query + "%"},
			squirrel.ILike{"producto": "%" + f.Query + "%"},
		})
	}
	total, err := selectCount(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.selectAll(ctx, page(base.OrderBy("fecha_inicio_plan DESC", "numero DESC"), f.Limit, f.Offset))
	return list, total, err
}

// ListPlaneadasEntre órdenes no canceladas cuyo rango planeado se cruza con [desde, hasta].
func (r *OrdenProduccionRepo) ListPlaneadasEntre(ctx context.Context, desde, hasta time.Time) ([]*entity.OrdenProduccion, error) {
	return r.selectAll(ctx, psql.Select(ordenProduccionColumns...).From("ordenes_produccion").
		Where(squirrel.NotEq{"estado": string(entity.ProduccionCancelada)}).
		Where(squirrel.LtOrEq{"fecha_inicio_plan": hasta}).
		Where(squirrel.GtOrEq{"fecha_fin_plan": desde}).
		OrderBy("fecha_inicio_plan ASC"))
}

func (r *OrdenProduccionRepo) selectAll(ctx context.Context, b squirrel.SelectBuilder) ([]*entity.OrdenProduccion, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list ordenes produccion: %w", err)
	}
	var rows []ordenProduccionRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list ordenes produccion: %w", err)
	}
	out := make([]*entity.OrdenProduccion, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}
