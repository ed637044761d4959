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
	"github.com/jhoicas/erp-manufactura/pkg/texto"
)

var _ repository.ActivoRepository = (*ActivoRepo)(nil)

// ActivoRepo activos fijos (usable con pool o tx).
type ActivoRepo struct {
	q Querier
}

// NewActivoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewActivoRepository(q Querier) *ActivoRepo {
	return &ActivoRepo{q: q}
}

type activoRow struct {
	ID               string          `db:"id"`
	Codigo           string          `db:"codigo"`
	Nombre           string          `db:"nombre"`
	Categoria        string          `db:"categoria"`
	Ubicacion        string          `db:"ubicacion"`
	ValorAdquisicion decimal.Decimal `db:"valor_adquisicion"`
	FechaAdquisicion time.Time       `db:"fecha_adquisicion"`
	OrdenCompraID    *string         `db:"orden_compra_id"`
	Estado           string          `db:"estado"`
	MotivoBaja       string          `db:"motivo_baja"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

var activoColumns = []string{
	"id", "codigo", "nombre", "categoria", "ubicacion", "valor_adquisicion", "fecha_adquisicion",
	"orden_compra_id", "estado", "motivo_baja", "created_at", "updated_at",
}

func (a activoRow) toEntity() *entity.Activo {
	return &entity.Activo{
		ID: a.ID, Codigo: a.Codigo, Nombre: a.Nombre, Categoria: a.Categoria, Ubicacion: a.Ubicacion,
		ValorAdquisicion: a.ValorAdquisicion, FechaAdquisicion: a.FechaAdquisicion, OrdenCompraID: a.OrdenCompraID,
		Estado: a.Estado, MotivoBaja: a.MotivoBaja, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	}
}

// Create persiste un activo. Código duplicado → domain.ErrDuplicate.
func (r *ActivoRepo) Create(ctx context.Context, a *entity.Activo) error {
	sql, args, err := psql.Insert("activos").
		Columns(append(activoColumns, "search_key")...).
		Values(a.ID, a.Codigo, a.Nombre, a.Categoria, a.Ubicacion, a.ValorAdquisicion, a.FechaAdquisicion,
			a.OrdenCompraID, a.Estado, a.MotivoBaja, a.CreatedAt, a.UpdatedAt,
			texto.SearchKeyOf(a.Codigo, a.Nombre, a.Categoria)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activo: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert activo", err)
	}
	return nil
}

// GetByID obtiene un activo por ID.
func (r *ActivoRepo) GetByID(ctx context.Context, id string) (*entity.Activo, error) {
	sql, args, err := psql.Select(activoColumns...).From("activos").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get activo: %w", err)
	}
	var row activoRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activo: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza ubicación, estado y datos descriptivos.
func (r *ActivoRepo) Update(ctx context.Context, a *entity.Activo) error {
	sql, args, err := psql.Update("activos").SetMap(map[string]any{
		"nombre":      a.Nombre,
		"categoria":   a.Categoria,
		"ubicacion":   a.Ubicacion,
		"estado":      a.Estado,
		"motivo_baja": a.MotivoBaja,
		"search_key":  texto.SearchKeyOf(a.Codigo, a.Nombre, a.Categoria),
		"updated_at":  a.UpdatedAt,
	}).Where(squirrel.Eq{"id": a.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update activo: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("update activo", err)
	}
	return nil
}

// Search listado paginado de activos.
func (r *ActivoRepo) Search(ctx context.Context, f repository.ActivoFilter) ([]*entity.Activo, int, error) {
	base := psql.Select(activoColumns...).From("activos")
	if f.Query != "" {
		base = base.Where("search_key LIKE ?", texto.LikePattern(f.Query))
	}
	if f.Categoria != "" {
		base = base.Where(squirrel.Eq{"categoria": f.Categoria})
	}
	if f.Estado != "" {
		base = base.Where(squirrel.Eq{"estado": f.Estado})
	}
	total, err := selectCount(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	sql, args, err := page(base.OrderBy("codigo ASC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search activos: %w", err)
	}
	var rows []activoRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("search activos: %w", err)
	}
	out := make([]*entity.Activo, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, total, nil
}
