package repository

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	MateriasPrimas    MateriaPrimaRepository
	Movimientos       MovimientoRepository
	OrdenesCompra     OrdenCompraRepository
	Recepciones       RecepcionRepository
	Pagos             PagoRepository
	Activos           ActivoRepository
	OrdenesProduccion OrdenProduccionRepository
}
