package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
)

var _ repository.RecepcionRepository = (*RecepcionRepo)(nil)

// RecepcionRepo recepciones de mercancía (usable con pool o tx).
type RecepcionRepo struct {
	q Querier
}

// NewRecepcionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecepcionRepository(q Querier) *RecepcionRepo {
	return &RecepcionRepo{q: q}
}

// Create inserta la recepción y sus líneas.
func (r *RecepcionRepo) Create(ctx context.Context, rec *entity.Recepcion) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO recepciones (id, orden_compra_id, factura_numero, observaciones, recibido_por, fecha, cerro_orden)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.OrdenCompraID, rec.FacturaNumero, rec.Observaciones, rec.RecibidoPor, rec.Fecha, rec.CerroOrden,
	)
	if err != nil {
		return mapWriteError("insert recepcion", err)
	}
	if len(rec.Items) == 0 {
		return nil
	}
	b := psql.Insert("items_recepcion").Columns(
		"id", "recepcion_id", "item_orden_id", "materia_prima_id", "cantidad", "costo_unitario_cop",
	)
	for _, it := range rec.Items {
		b = b.Values(it.ID, rec.ID, it.ItemOrdenID, it.MateriaPrimaID, it.Cantidad, it.CostoUnitarioCOP)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items recepcion: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return mapWriteError("insert items recepcion", err)
	}
	return nil
}

// ListByOrden recepciones de la orden (más antigua primero) con sus líneas.
func (r *RecepcionRepo) ListByOrden(ctx context.Context, ordenID string) ([]*entity.Recepcion, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, orden_compra_id, factura_numero, observaciones, recibido_por, fecha, cerro_orden
		FROM recepciones WHERE orden_compra_id = $1 ORDER BY fecha`, ordenID)
	if err != nil {
		return nil, fmt.Errorf("list recepciones: %w", err)
	}
	var (
		list  []*entity.Recepcion
		index = map[string]*entity.Recepcion{}
	)
	for rows.Next() {
		var rec entity.Recepcion
		if err := rows.Scan(&rec.ID, &rec.OrdenCompraID, &rec.FacturaNumero, &rec.Observaciones,
			&rec.RecibidoPor, &rec.Fecha, &rec.CerroOrden); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recepcion: %w", err)
		}
		list = append(list, &rec)
		index[rec.ID] = &rec
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recepciones: %w", err)
	}
	if len(list) == 0 {
		return list, nil
	}

	itemRows, err := r.q.Query(ctx, `
		SELECT ir.id, ir.recepcion_id, ir.item_orden_id, ir.materia_prima_id, ir.cantidad, ir.costo_unitario_cop
		FROM items_recepcion ir
		JOIN recepciones r ON r.id = ir.recepcion_id
		WHERE r.orden_compra_id = $1`, ordenID)
	if err != nil {
		return nil, fmt.Errorf("list items recepcion: %w", err)
	}
	defer itemRows.Close()
	for itemRows.Next() {
		var it entity.ItemRecepcion
		if err := itemRows.Scan(&it.ID, &it.RecepcionID, &it.ItemOrdenID, &it.MateriaPrimaID,
			&it.Cantidad, &it.CostoUnitarioCOP); err != nil {
			return nil, fmt.Errorf("scan item recepcion: %w", err)
		}
		if rec, ok := index[it.RecepcionID]; ok {
			rec.Items = append(rec.Items, it)
		}
	}
	return list, itemRows.Err()
}
