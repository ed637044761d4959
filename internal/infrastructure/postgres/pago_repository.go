package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

var _ repository.PagoRepository = (*PagoRepo)(nil)

// PagoRepo pagos a proveedores (usable con pool o tx).
type PagoRepo struct {
	q Querier
}

// NewPagoRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPagoRepository(q Querier) *PagoRepo {
	return &PagoRepo{q: q}
}

// Create inserta un pago.
func (r *PagoRepo) Create(ctx context.Context, p *entity.Pago) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO pagos (id, orden_compra_id, fecha, valor, metodo, referencia, registrado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.OrdenCompraID, p.Fecha, p.Valor, p.Metodo, p.Referencia, p.RegistradoPor, p.CreatedAt,
	)
	if err != nil {
		return mapWriteError("insert pago", err)
	}
	return nil
}

// ListByOrden pagos de la orden por fecha.
func (r *PagoRepo) ListByOrden(ctx context.Context, ordenID string) ([]*entity.Pago, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, orden_compra_id, fecha, valor, metodo, referencia, registrado_por, created_at
		FROM pagos WHERE orden_compra_id = $1 ORDER BY fecha, created_at`, ordenID)
	if err != nil {
		return nil, fmt.Errorf("list pagos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pago
	for rows.Next() {
		var p entity.Pago
		if err := rows.Scan(&p.ID, &p.OrdenCompraID, &p.Fecha, &p.Valor, &p.Metodo, &p.Referencia,
			&p.RegistradoPor, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pago: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// SumByOrden total pagado de la orden.
func (r *PagoRepo) SumByOrden(ctx context.Context, ordenID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(valor), 0) FROM pagos WHERE orden_compra_id = $1`, ordenID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum pagos: %w", err)
	}
	return total, nil
}
