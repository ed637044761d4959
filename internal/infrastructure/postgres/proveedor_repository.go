package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
	"github.com/jhoicas/erp-manufactura/pkg/texto"
)

var _ repository.ProveedorRepository = (*ProveedorRepo)(nil)

// ProveedorRepo implementación de ProveedorRepository sobre PostgreSQL.
type ProveedorRepo struct {
	q Querier
}

// NewProveedorRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProveedorRepository(q Querier) *ProveedorRepo {
	return &ProveedorRepo{q: q}
}

type proveedorRow struct {
	ID            string    `db:"id"`
	NIT           string    `db:"nit"`
	RazonSocial   string    `db:"razon_social"`
	Direccion     string    `db:"direccion"`
	Ciudad        string    `db:"ciudad"`
	Telefono      string    `db:"telefono"`
	Email         string    `db:"email"`
	Contacto      string    `db:"contacto"`
	PlazoPagoDias int       `db:"plazo_pago_dias"`
	Activo        bool      `db:"activo"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

var proveedorColumns = []string{
	"id", "nit", "razon_social", "direccion", "ciudad", "telefono", "email", "contacto",
	"plazo_pago_dias", "activo", "created_at", "updated_at",
}

func (p proveedorRow) toEntity() *entity.Proveedor {
	return &entity.Proveedor{
		ID: p.ID, NIT: p.NIT, RazonSocial: p.RazonSocial, Direccion: p.Direccion, Ciudad: p.Ciudad,
		Telefono: p.Telefono, Email: p.Email, Contacto: p.Contacto, PlazoPagoDias: p.PlazoPagoDias,
		Activo: p.Activo, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

func proveedorSearchKey(p *entity.Proveedor) string {
	return texto.SearchKeyOf(p.NIT, p.RazonSocial, p.Ciudad)
}

// Create persiste un proveedor. NIT duplicado → domain.ErrDuplicate.
func (r *ProveedorRepo) Create(ctx context.Context, p *entity.Proveedor) error {
	sql, args, err := psql.Insert("proveedores").
		Columns(append(proveedorColumns, "search_key")...).
		Values(p.ID, p.NIT, p.RazonSocial, p.Direccion, p.Ciudad, p.Telefono, p.Email, p.Contacto,
			p.PlazoPagoDias, p.Activo, p.CreatedAt, p.UpdatedAt, proveedorSearchKey(p)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert proveedor: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert proveedor", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *ProveedorRepo) GetByID(ctx context.Context, id string) (*entity.Proveedor, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByNIT obtiene un proveedor por NIT normalizado.
func (r *ProveedorRepo) GetByNIT(ctx context.Context, nit string) (*entity.Proveedor, error) {
	return r.getOne(ctx, squirrel.Eq{"nit": nit})
}

func (r *ProveedorRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*entity.Proveedor, error) {
	sql, args, err := psql.Select(proveedorColumns...).From("proveedores").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get proveedor: %w", err)
	}
	var row proveedorRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get proveedor: %w", err)
	}
	return row.toEntity(), nil
}

// Update actualiza los datos del proveedor (incluye activar/desactivar).
func (r *ProveedorRepo) Update(ctx context.Context, p *entity.Proveedor) error {
	sql, args, err := psql.Update("proveedores").SetMap(map[string]any{
		"nit":             p.NIT,
		"razon_social":    p.RazonSocial,
		"direccion":       p.Direccion,
		"ciudad":          p.Ciudad,
		"telefono":        p.Telefono,
		"email":           p.Email,
		"contacto":        p.Contacto,
		"plazo_pago_dias": p.PlazoPagoDias,
		"activo":          p.Activo,
		"search_key":      proveedorSearchKey(p),
		"updated_at":      p.UpdatedAt,
	}).Where(squirrel.Eq{"id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update proveedor: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("update proveedor", err)
	}
	return nil
}

// Search búsqueda paginada del selector de proveedores.
func (r *ProveedorRepo) Search(ctx context.Context, f repository.ProveedorFilter) ([]*entity.Proveedor, int, error) {
	base := psql.Select(proveedorColumns...).From("proveedores")
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

	sql, args, err := page(base.OrderBy("razon_social ASC"), f.Limit, f.Offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build search proveedores: %w", err)
	}
	var rows []proveedorRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, 0, fmt.Errorf("search proveedores: %w", err)
	}
	out := make([]*entity.Proveedor, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, total, nil
}
