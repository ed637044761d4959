// Package testutil implementaciones en memoria de los puertos de persistencia para pruebas de casos de uso.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-manufactura/internal/domain"
	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
	"github.com/jhoicas/erp-manufactura/internal/domain/repository"
	"github.com/jhoicas/erp-manufactura/pkg/texto"
)

// Store base de datos en memoria. Run descarta los cambios de fn si retorna error.
type Store struct {
	mu sync.Mutex

	Users          map[string]*entity.User
	Proveedores    map[string]*entity.Proveedor
	MateriasPrimas map[string]*entity.MateriaPrima
	Movimientos    []*entity.MovimientoInventario
	Ordenes        map[string]*entity.OrdenCompra
	Recepciones    []*entity.Recepcion
	Pagos          []*entity.Pago
	Activos        map[string]*entity.Activo
	Produccion     map[string]*entity.OrdenProduccion

	seq map[string]int
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		Users:          map[string]*entity.User{},
		Proveedores:    map[string]*entity.Proveedor{},
		MateriasPrimas: map[string]*entity.MateriaPrima{},
		Ordenes:        map[string]*entity.OrdenCompra{},
		Activos:        map[string]*entity.Activo{},
		Produccion:     map[string]*entity.OrdenProduccion{},
		seq:            map[string]int{},
	}
}

// Run ejecuta fn con los repos del Store; si falla restaura el estado previo.
func (s *Store) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	snap := s.snapshot()
	if err := fn(s.TxRepos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// TxRepos repositorios sobre el Store.
func (s *Store) TxRepos() repository.TxRepos {
	return repository.TxRepos{
		MateriasPrimas:    MateriaPrimaRepo{s},
		Movimientos:       MovimientoRepo{s},
		OrdenesCompra:     OrdenCompraRepo{s},
		Recepciones:       RecepcionRepo{s},
		Pagos:             PagoRepo{s},
		Activos:           ActivoRepo{s},
		OrdenesProduccion: OrdenProduccionRepo{s},
	}
}

func (s *Store) snapshot() *Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := NewStore()
	for k, v := range s.MateriasPrimas {
		cp := *v
		c.MateriasPrimas[k] = &cp
	}
	for k, v := range s.Ordenes {
		c.Ordenes[k] = cloneOrden(v)
	}
	for k, v := range s.Activos {
		cp := *v
		c.Activos[k] = &cp
	}
	for k, v := range s.Produccion {
		c.Produccion[k] = cloneProduccion(v)
	}
	c.Movimientos = append(c.Movimientos, s.Movimientos...)
	c.Recepciones = append(c.Recepciones, s.Recepciones...)
	c.Pagos = append(c.Pagos, s.Pagos...)
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

func (s *Store) restore(c *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.MateriasPrimas = c.MateriasPrimas
	s.Ordenes = c.Ordenes
	s.Activos = c.Activos
	s.Produccion = c.Produccion
	s.Movimientos = c.Movimientos
	s.Recepciones = c.Recepciones
	s.Pagos = c.Pagos
	s.seq = c.seq
}

func (s *Store) next(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq[key]++
	return s.seq[key]
}

func cloneOrden(o *entity.OrdenCompra) *entity.OrdenCompra {
	cp := *o
	cp.Items = append([]entity.ItemOrdenCompra(nil), o.Items...)
	return &cp
}

func cloneProduccion(o *entity.OrdenProduccion) *entity.OrdenProduccion {
	cp := *o
	cp.Insumos = append([]entity.InsumoProduccion(nil), o.Insumos...)
	return &cp
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func matches(q string, fields ...string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(texto.SearchKeyOf(fields...), texto.SearchKey(q))
}

// ── Usuarios ────────────────────────────────────────────────────────────────

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ S *Store }

func (r UserRepo) Create(_ context.Context, u *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Users {
		if x.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	cp := *u
	r.S.Users[u.ID] = &cp
	return nil
}

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if u, ok := r.S.Users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, u := range r.S.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r UserRepo) Update(_ context.Context, u *entity.User) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *u
	r.S.Users[u.ID] = &cp
	return nil
}

func (r UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	all := make([]*entity.User, 0, len(r.S.Users))
	for _, u := range r.S.Users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return pageOf(all, limit, offset), len(all), nil
}

// ── Proveedores ─────────────────────────────────────────────────────────────

// ProveedorRepo implementa repository.ProveedorRepository.
type ProveedorRepo struct{ S *Store }

func (r ProveedorRepo) Create(_ context.Context, p *entity.Proveedor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Proveedores {
		if x.NIT == p.NIT {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.S.Proveedores[p.ID] = &cp
	return nil
}

func (r ProveedorRepo) GetByID(_ context.Context, id string) (*entity.Proveedor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if p, ok := r.S.Proveedores[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r ProveedorRepo) GetByNIT(_ context.Context, nit string) (*entity.Proveedor, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, p := range r.S.Proveedores {
		if p.NIT == nit {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r ProveedorRepo) Update(_ context.Context, p *entity.Proveedor) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Proveedores[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.S.Proveedores[p.ID] = &cp
	return nil
}

func (r ProveedorRepo) Search(_ context.Context, f repository.ProveedorFilter) ([]*entity.Proveedor, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var all []*entity.Proveedor
	for _, p := range r.S.Proveedores {
		if f.SoloActivos && !p.Activo {
			continue
		}
		if !matches(f.Query, p.NIT, p.RazonSocial, p.Ciudad) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].RazonSocial < all[j].RazonSocial })
	return pageOf(all, f.Limit, f.Offset), len(all), nil
}

// ── Materias primas y Kardex ────────────────────────────────────────────────

// MateriaPrimaRepo implementa repository.MateriaPrimaRepository.
type MateriaPrimaRepo struct{ S *Store }

func (r MateriaPrimaRepo) Create(_ context.Context, m *entity.MateriaPrima) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.MateriasPrimas {
		if x.Codigo == m.Codigo {
			return domain.ErrDuplicate
		}
	}
	cp := *m
	r.S.MateriasPrimas[m.ID] = &cp
	return nil
}

func (r MateriaPrimaRepo) GetByID(_ context.Context, id string) (*entity.MateriaPrima, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if m, ok := r.S.MateriasPrimas[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (r MateriaPrimaRepo) GetByCodigo(_ context.Context, codigo string) (*entity.MateriaPrima, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, m := range r.S.MateriasPrimas {
		if m.Codigo == codigo {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r MateriaPrimaRepo) GetForUpdate(ctx context.Context, id string) (*entity.MateriaPrima, error) {
	return r.GetByID(ctx, id)
}

func (r MateriaPrimaRepo) Update(_ context.Context, m *entity.MateriaPrima) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.MateriasPrimas[m.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *m
	cp.Stock, cp.Costo = cur.Stock, cur.Costo
	r.S.MateriasPrimas[m.ID] = &cp
	return nil
}

func (r MateriaPrimaRepo) UpdateStockCosto(_ context.Context, id string, stock, costo decimal.Decimal) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	m, ok := r.S.MateriasPrimas[id]
	if !ok {
		return domain.ErrNotFound
	}
	cp := *m
	cp.Stock, cp.Costo = stock, costo
	r.S.MateriasPrimas[id] = &cp
	return nil
}

func (r MateriaPrimaRepo) Search(_ context.Context, f repository.MateriaPrimaFilter) ([]*entity.MateriaPrima, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var all []*entity.MateriaPrima
	for _, m := range r.S.MateriasPrimas {
		if f.SoloActivos && !m.Activo {
			continue
		}
		if !matches(f.Query, m.Codigo, m.Nombre) {
			continue
		}
		cp := *m
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Codigo < all[j].Codigo })
	return pageOf(all, f.Limit, f.Offset), len(all), nil
}

func (r MateriaPrimaRepo) ListBajoStockMinimo(_ context.Context) ([]*entity.MateriaPrima, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.MateriaPrima
	for _, m := range r.S.MateriasPrimas {
		if m.Activo && m.BajoMinimo() {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

// MovimientoRepo implementa repository.MovimientoRepository.
type MovimientoRepo struct{ S *Store }

func (r MovimientoRepo) Create(_ context.Context, m *entity.MovimientoInventario) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *m
	r.S.Movimientos = append(r.S.Movimientos, &cp)
	return nil
}

func (r MovimientoRepo) ListByMateriaPrima(_ context.Context, id string, limit, offset int) ([]*entity.MovimientoInventario, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var all []*entity.MovimientoInventario
	for i := len(r.S.Movimientos) - 1; i >= 0; i-- {
		if m := r.S.Movimientos[i]; m.MateriaPrimaID == id {
			cp := *m
			all = append(all, &cp)
		}
	}
	return pageOf(all, limit, offset), len(all), nil
}

// ── Órdenes de compra, recepciones y pagos ──────────────────────────────────

// OrdenCompraRepo implementa repository.OrdenCompraRepository.
type OrdenCompraRepo struct{ S *Store }

func (r OrdenCompraRepo) NextNumero(_ context.Context, tipo entity.TipoOrden) (string, error) {
	return fmt.Sprintf("%s-%06d", tipo, r.S.next(string(tipo))), nil
}

func (r OrdenCompraRepo) Create(_ context.Context, o *entity.OrdenCompra) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Proveedores[o.ProveedorID]; !ok {
		return fmt.Errorf("%w: referencia inexistente en insert orden_compra", domain.ErrInvalidInput)
	}
	r.S.Ordenes[o.ID] = cloneOrden(o)
	return nil
}

func (r OrdenCompraRepo) GetByID(_ context.Context, id string) (*entity.OrdenCompra, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if o, ok := r.S.Ordenes[id]; ok {
		return cloneOrden(o), nil
	}
	return nil, nil
}

func (r OrdenCompraRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrdenCompra, error) {
	return r.GetByID(ctx, id)
}

func (r OrdenCompraRepo) Update(_ context.Context, o *entity.OrdenCompra) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Ordenes[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.S.Ordenes[o.ID] = cloneOrden(o)
	return nil
}

func (r OrdenCompraRepo) UpdateEstado(_ context.Context, o *entity.OrdenCompra) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Ordenes[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Estado = o.Estado
	cur.LiberadaAt, cur.EnviadaAt, cur.CerradaAt, cur.CanceladaAt = o.LiberadaAt, o.EnviadaAt, o.CerradaAt, o.CanceladaAt
	cur.MotivoCancelacion = o.MotivoCancelacion
	cur.UpdatedAt = o.UpdatedAt
	return nil
}

func (r OrdenCompraRepo) UpdateCantidadRecibida(_ context.Context, itemID string, cantidad decimal.Decimal) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, o := range r.S.Ordenes {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				o.Items[i].CantidadRecibida = cantidad
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r OrdenCompraRepo) Search(_ context.Context, f repository.OrdenCompraFilter) ([]repository.OrdenCompraResumen, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var all []repository.OrdenCompraResumen
	for _, o := range r.S.Ordenes {
		if f.Tipo != "" && o.Tipo != f.Tipo {
			continue
		}
		if f.Estado != "" && o.Estado != f.Estado {
			continue
		}
		if f.ProveedorID != "" && o.ProveedorID != f.ProveedorID {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToUpper(o.Numero), strings.ToUpper(f.Query)) {
			continue
		}
		if f.Desde != nil && o.FechaEmision.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && !o.FechaEmision.Before(f.Hasta.AddDate(0, 0, 1)) {
			continue
		}
		var razon string
		if p, ok := r.S.Proveedores[o.ProveedorID]; ok {
			razon = p.RazonSocial
		}
		all = append(all, repository.OrdenCompraResumen{
			ID: o.ID, Numero: o.Numero, Tipo: string(o.Tipo), Estado: string(o.Estado),
			ProveedorID: o.ProveedorID, Proveedor: razon, Moneda: o.Moneda,
			Total: o.Total, TotalCOP: o.TotalCOP, FechaEmision: o.FechaEmision,
		})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Numero > all[j].Numero })
	return pageOf(all, f.Limit, f.Offset), len(all), nil
}

// RecepcionRepo implementa repository.RecepcionRepository.
type RecepcionRepo struct{ S *Store }

func (r RecepcionRepo) Create(_ context.Context, rc *entity.Recepcion) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *rc
	cp.Items = append([]entity.ItemRecepcion(nil), rc.Items...)
	r.S.Recepciones = append(r.S.Recepciones, &cp)
	return nil
}

func (r RecepcionRepo) ListByOrden(_ context.Context, ordenID string) ([]*entity.Recepcion, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Recepcion
	for _, rc := range r.S.Recepciones {
		if rc.OrdenCompraID == ordenID {
			cp := *rc
			out = append(out, &cp)
		}
	}
	return out, nil
}

// PagoRepo implementa repository.PagoRepository.
type PagoRepo struct{ S *Store }

func (r PagoRepo) Create(_ context.Context, p *entity.Pago) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cp := *p
	r.S.Pagos = append(r.S.Pagos, &cp)
	return nil
}

func (r PagoRepo) ListByOrden(_ context.Context, ordenID string) ([]*entity.Pago, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.Pago
	for _, p := range r.S.Pagos {
		if p.OrdenCompraID == ordenID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r PagoRepo) SumByOrden(_ context.Context, ordenID string) (decimal.Decimal, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	sum := decimal.Zero
	for _, p := range r.S.Pagos {
		if p.OrdenCompraID == ordenID {
			sum = sum.Add(p.Valor)
		}
	}
	return sum, nil
}

// ── Activos ─────────────────────────────────────────────────────────────────

// ActivoRepo implementa repository.ActivoRepository.
type ActivoRepo struct{ S *Store }

func (r ActivoRepo) Create(_ context.Context, a *entity.Activo) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, x := range r.S.Activos {
		if x.Codigo == a.Codigo {
			return domain.ErrDuplicate
		}
	}
	cp := *a
	r.S.Activos[a.ID] = &cp
	return nil
}

func (r ActivoRepo) GetByID(_ context.Context, id string) (*entity.Activo, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if a, ok := r.S.Activos[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r ActivoRepo) Update(_ context.Context, a *entity.Activo) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if _, ok := r.S.Activos[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.S.Activos[a.ID] = &cp
	return nil
}

func (r ActivoRepo) Search(_ context.Context, f repository.ActivoFilter) ([]*entity.Activo, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var all []*entity.Activo
	for _, a := range r.S.Activos {
		if f.Estado != "" && a.Estado != f.Estado {
			continue
		}
		if f.Categoria != "" && a.Categoria != f.Categoria {
			continue
		}
		if !matches(f.Query, a.Codigo, a.Nombre, a.Ubicacion) {
			continue
		}
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Codigo < all[j].Codigo })
	return pageOf(all, f.Limit, f.Offset), len(all), nil
}

// ── Producción ──────────────────────────────────────────────────────────────

// OrdenProduccionRepo implementa repository.OrdenProduccionRepository.
type OrdenProduccionRepo struct{ S *Store }

func (r OrdenProduccionRepo) NextNumero(_ context.Context) (string, error) {
	return fmt.Sprintf("OP-%06d", r.S.next("OP")), nil
}

func (r OrdenProduccionRepo) Create(_ context.Context, o *entity.OrdenProduccion) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	r.S.Produccion[o.ID] = cloneProduccion(o)
	return nil
}

func (r OrdenProduccionRepo) GetByID(_ context.Context, id string) (*entity.OrdenProduccion, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	if o, ok := r.S.Produccion[id]; ok {
		return cloneProduccion(o), nil
	}
	return nil, nil
}

func (r OrdenProduccionRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrdenProduccion, error) {
	return r.GetByID(ctx, id)
}

func (r OrdenProduccionRepo) UpdateEstado(_ context.Context, o *entity.OrdenProduccion) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	cur, ok := r.S.Produccion[o.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Estado = o.Estado
	cur.IniciadaAt, cur.TerminadaAt = o.IniciadaAt, o.TerminadaAt
	cur.UpdatedAt = o.UpdatedAt
	return nil
}

func (r OrdenProduccionRepo) UpdateConsumo(_ context.Context, insumoID string, consumida decimal.Decimal) error {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	for _, o := range r.S.Produccion {
		for i := range o.Insumos {
			if o.Insumos[i].ID == insumoID {
				o.Insumos[i].CantidadConsumida = consumida
				return nil
			}
		}
	}
	return domain.ErrNotFound
}

func (r OrdenProduccionRepo) Search(_ context.Context, f repository.OrdenProduccionFilter) ([]*entity.OrdenProduccion, int, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var all []*entity.OrdenProduccion
	for _, o := range r.S.Produccion {
		if f.Estado != "" && o.Estado != f.Estado {
			continue
		}
		if !matches(f.Query, o.Numero, o.Producto) {
			continue
		}
		cp := *o
		cp.Insumos = nil
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Numero > all[j].Numero })
	return pageOf(all, f.Limit, f.Offset), len(all), nil
}

func (r OrdenProduccionRepo) ListPlaneadasEntre(_ context.Context, desde, hasta time.Time) ([]*entity.OrdenProduccion, error) {
	r.S.mu.Lock()
	defer r.S.mu.Unlock()
	var out []*entity.OrdenProduccion
	for _, o := range r.S.Produccion {
		if o.Estado == entity.ProduccionCancelada {
			continue
		}
		if o.FechaInicioPlan.After(hasta) || o.FechaFinPlan.Before(desde) {
			continue
		}
		out = append(out, cloneProduccion(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaInicioPlan.Before(out[j].FechaInicioPlan) })
	return out, nil
}
