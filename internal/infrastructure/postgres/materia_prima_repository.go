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

var _ repository.MateriaPrimaRepository = (*MateriaPrimaRepo)(nil)

// MateriaPrimaRepo implementación de MateriaPrimaRepository (usable con pool o tx).
type MateriaPrimaRepo struct {
	q Querier
}

// NewMateriaPrimaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMateriaPrimaRepository(q Querier) *MateriaPrimaRepo {
	return &MateriaPrimaRepo{q: q}
}

type materiaPrimaRow struct {
	ID           string          `db:"id"`
	Codigo       string          `db:"codigo"`
	Nombre       string          `db:"nombre"`
	Descripcion  string          `db:"descripcion"`
	UnidadMedida string          `db:"unidad_medida"`
	Costo        decimal.Decimal `db:"costo"`
	Stock        decimal.Decimal `db:"stock"`
	StockMinimo  decimal.Decimal `db:"stock_minimo"`
	Activo       bool            `db:"activo"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

var materiaPrimaColumns = []string{
	"id", "codigo", "nombre", "descripcion", "unidad_medida", "costo", "stock", "stock_minimo",
	"activo", "created_at", "updated_at",
}

func (m materiaPrimaRow) toEntity() *entity.MateriaPrima {
	return &entity.MateriaPrima{
		ID: m.ID, Codigo: m.Codigo, Nombre: m.Nombre, Descripcion: m.Descripcion,
		UnidadMedida: m.UnidadMedida, Costo: m.Costo, Stock: m.Stock, StockMinimo: m.StockMinimo,
		Activo: m.Activo, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt,
	}
}

func materiaPrimaSearchKey(m *entity.MateriaPrima) string {
	return texto.SearchKeyOf(m.Codigo, m.Nombre)
}

// Create persiste una materia prima. Código duplicado → domain.ErrDuplicate.
func (r *MateriaPrimaRepo) Create(ctx context.Context, m *entity.MateriaPrima) error {
	sql, args, err := psql.Insert("materias_primas").
		Columns(append(materiaPrimaColumns, "search_key")...).
		Values(m.ID, m.Codigo, m.Nombre, m.Descripcion, m.UnidadMedida, m.Costo, m.Stock, m.StockMinimo,
			m.Activo, m.CreatedAt, m.UpdatedAt, materiaPrimaSearchKey(m)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert materia prima: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert materia prima", err)
	}
	return nil
}

// GetByID obtiene una materia prima por ID.
func (r *MateriaPrimaRepo) GetByID(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.getOne(ctx, psql.Select(materiaPrimaColumns...).From("materias_primas").Where(squirrel.Eq{"id": id}))
}

// GetByCodigo obtiene una materia prima por código.
func (r *MateriaPrimaRepo) GetByCodigo(ctx context.Context, codigo string) (*entity.MateriaPrima, error) {
	return r.getOne(ctx, psql.Select(materiaPrimaColumns...).From("materias_primas").Where(squirrel.Eq{"codigo": codigo}))
}

// GetForUpdate obtiene la materia prima y bloquea la fila (SELECT FOR UPDATE).
func (r *MateriaPrimaRepo) GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.getOne(ctx, psql.Select(materiaPrimaColumns...).From("materias_primas").
		Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *MateriaPrimaRepo) getOne(ctx context.Context, b squirrel.SelectBuilder) (*entity.MateriaPrima, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get materia prima: %w", err)
	}
	var row materiaPrimaRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get materia prima: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza los datos maestros. Stock y costo solo cambian con UpdateStockCosto.
func (r *MateriaPrimaRepo) Update(ctx context.Context, m *entity.MateriaPrima) error {
	sql, args, err := psql.Update("materias_primas").SetMap(map[string]any{
		"codigo":        m.Codigo,
		"nombre":        m.Nombre,
		"descripcion":   m.Descripcion,
		"unidad_medida": m.UnidadMedida,
		"stock_minimo":  m.StockMinimo,
		"activo":        m.Activo,
		"search_key":    materiaPrimaSearchKey(m),
		"updated_at":    m.UpdatedAt,
	}).Where(squirrel.Eq{"id": m.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update materia prima: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("update materia prima", err)
	}
	return nil
}

// UpdateStockCosto fija stock y costo promedio (llamar con la fila bloqueada).
func (r *MateriaPrimaRepo) UpdateStockCosto(ctx context.Context, id string, stock, costo decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE materias_primas SET stock = $2, costo = $3, updated_at = now() WHERE id = $1`,
		id, stock, costo)
	if err != nil {
		return fmt.Errorf("update stock materia prima: %w", err)
	}
	return nil
}

// Search búsqueda paginada del selector de materias primas.
func (r *MateriaPrimaRepo) Search(ctx context.Context, f repository.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error) {
	base := psql.Select(materiaPrimaColumns...).From("materias_primas")
	if f.Query != "" {
		base = base.Where("search_key LIKE ?", texto.LikePattern(f.Query))
	}
	if f.SoloActivos {
		base = base.Where(squirrel.Eq{"activo": true})
	}
	total, err := selectCount(ctx, r.q, base)
	if err != nil {
		return nil, 0, err
	}
	list, err := r.selectAll(ctx, page(base.OrderBy("nombre ASC"), f.Limit, f.Offset))
	return list, total, err
}

// ListBajoStockMinimo materias primas activas con stock por debajo del mínimo.
func (r *MateriaPrimaRepo) ListBajoStockMinimo(ctx context.Context) ([]*entity.MateriaPrima, error) {
	return r.selectAll(ctx, psql.Select(materiaPrimaColumns...).From("materias_primas").
		Where(squirrel.Eq{"activo": true}).
		Where("stock_minimo > 0 AND stock < stock_minimo").
		OrderBy("(stock / stock_minimo) ASC", "nombre ASC"))
}

func (r *MateriaPrimaRepo) selectAll(ctx context.Context, b squirrel.SelectBuilder) ([]*entity.MateriaPrima, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list materias primas: %w", err)
	}
	var rows []materiaPrimaRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list materias primas: %w", err)
	}
	out := make([]*entity.MateriaPrima, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}
