package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

var _ repository.MovimientoRepository = (*MovimientoRepo)(nil)

// MovimientoRepo Kardex de materias primas (usable con pool o tx).
type MovimientoRepo struct {
	q Querier
}

// NewMovimientoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovimientoRepository(q Querier) *MovimientoRepo {
	return &MovimientoRepo{q: q}
}

// Create inserta un movimiento.
func (r *MovimientoRepo) Create(ctx context.Context, m *entity.MovimientoInventario) error {
	query := `
		INSERT INTO movimientos_inventario (
			id, materia_prima_id, tipo, cantidad, costo_unitario, costo_total, stock_resultado,
			origen, referencia, fecha, creado_por
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.MateriaPrimaID, m.Tipo, m.Cantidad, m.CostoUnitario, m.CostoTotal, m.StockResultado,
		m.Origen, m.Referencia, m.Fecha, m.CreadoPor,
	)
	if err != nil {
		return mapWriteError("insert movimiento", err)
	}
	return nil
}

// ListByMateriaPrima Kardex de una materia prima, más reciente primero.
func (r *MovimientoRepo) ListByMateriaPrima(ctx context.Context, materiaPrimaID string, limit, offset int) ([]*entity.MovimientoInventario, int, error) {
	var total int
	if err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM movimientos_inventario WHERE materia_prima_id = $1`, materiaPrimaID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movimientos: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, materia_prima_id, tipo, cantidad, costo_unitario, costo_total, stock_resultado,
		       origen, referencia, fecha, creado_por
		FROM movimientos_inventario
		WHERE materia_prima_id = $1
		ORDER BY fecha DESC, id
		LIMIT $2 OFFSET $3`, materiaPrimaID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()
	var list []*entity.MovimientoInventario
	for rows.Next() {
		var m entity.MovimientoInventario
		if err := rows.Scan(&m.ID, &m.MateriaPrimaID, &m.Tipo, &m.Cantidad, &m.CostoUnitario, &m.CostoTotal,
			&m.StockResultado, &m.Origen, &m.Referencia, &m.Fecha, &m.CreadoPor); err != nil {
			return nil, 0, fmt.Errorf("scan movimiento: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
