package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-manufactura/internal/domain/entity"
)

// RouterDeps handlers ya construidos y secreto JWT.
type RouterDeps struct {
	Auth           *AuthHandler
	Proveedores    *ProveedorHandler
	MateriasPrimas *MateriaPrimaHandler
	OrdenesCompra  *OrdenCompraHandler
	Recepciones    *RecepcionHandler
	Pagos          *PagoHandler
	Activos        *ActivoHandler
	OrdenesProd    *OrdenProduccionHandler
	TRM            *TRMHandler
	JWTSecret      string
}

// Router registra las rutas de la API. admin pasa todos los RequireRole.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	api.Post("/auth/login", deps.Auth.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", deps.Auth.Me)

	compras := RequireRole(entity.RoleCompras)
	almacen := RequireRole(entity.RoleAlmacen)
	comprasOAlmacen := RequireRole(entity.RoleCompras, entity.RoleAlmacen)
	produccion := RequireRole(entity.RoleProduccion)
	todos := RequireRole(entity.RoleCompras, entity.RoleAlmacen, entity.RoleProduccion)

	// Usuarios (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	users.Post("/", deps.Auth.Register)
	users.Get("/", deps.Auth.ListUsers)
	users.Patch("/:id/status", deps.Auth.SetUserStatus)

	// Proveedores
	prov := protected.Group("/proveedores")
	prov.Get("/", comprasOAlmacen, deps.Proveedores.Search)
	prov.Get("/:id", comprasOAlmacen, deps.Proveedores.GetByID)
	prov.Post("/", compras, deps.Proveedores.Create)
	prov.Put("/:id", compras, deps.Proveedores.Update)
	prov.Delete("/:id", compras, deps.Proveedores.Deactivate)

	// Materias primas: lectura para todos los roles
	mp := protected.Group("/materias-primas")
	mp.Get("/", todos, deps.MateriasPrimas.Search)
	mp.Get("/bajo-minimo", todos, deps.MateriasPrimas.BajoMinimo)
	mp.Get("/:id", todos, deps.MateriasPrimas.GetByID)
	mp.Get("/:id/movimientos", todos, deps.MateriasPrimas.Movimientos)
	mp.Post("/", comprasOAlmacen, deps.MateriasPrimas.Create)
	mp.Put("/:id", comprasOAlmacen, deps.MateriasPrimas.Update)
	mp.Post("/:id/ajustes", almacen, deps.MateriasPrimas.Ajustar)

	// Órdenes de compra
	oc := protected.Group("/ordenes-compra")
	oc.Post("/calcular", compras, deps.OrdenesCompra.Calcular)
	oc.Get("/", comprasOAlmacen, deps.OrdenesCompra.Search)
	oc.Post("/", compras, deps.OrdenesCompra.Create)
	oc.Get("/:id", comprasOAlmacen, deps.OrdenesCompra.GetByID)
	oc.Put("/:id", compras, deps.OrdenesCompra.Update)
	oc.Post("/:id/liberar", compras, deps.OrdenesCompra.Liberar)
	oc.Post("/:id/enviar", compras, deps.OrdenesCompra.Enviar)
	oc.Post("/:id/cerrar", compras, deps.OrdenesCompra.Cerrar)
	oc.Post("/:id/cancelar", compras, deps.OrdenesCompra.Cancelar)
	oc.Get("/:id/pdf", comprasOAlmacen, deps.OrdenesCompra.PDF)
	oc.Get("/:id/excel", comprasOAlmacen, deps.OrdenesCompra.Excel)
	oc.Get("/:id/xml", compras, deps.OrdenesCompra.XML)

	// Recepciones (almacén)
	oc.Post("/:id/recepciones/preview", almacen, deps.Recepciones.Preview)
	oc.Post("/:id/recepciones", almacen, deps.Recepciones.Confirmar)
	oc.Get("/:id/recepciones", comprasOAlmacen, deps.Recepciones.List)

	// Pagos
	oc.Post("/:id/pagos", compras, deps.Pagos.Registrar)
	oc.Get("/:id/pagos", compras, deps.Pagos.EstadoCuenta)

	// Activos fijos
	act := protected.Group("/activos", compras)
	act.Get("/", deps.Activos.Search)
	act.Post("/", deps.Activos.Create)
	act.Get("/:id", deps.Activos.GetByID)
	act.Post("/:id/baja", deps.Activos.DarDeBaja)

	// Producción
	op := protected.Group("/ordenes-produccion", produccion)
	op.Get("/", deps.OrdenesProd.Search)
	op.Post("/", deps.OrdenesProd.Create)
	op.Get("/programacion", deps.OrdenesProd.Programacion)
	op.Get("/:id", deps.OrdenesProd.GetByID)
	op.Post("/:id/iniciar", deps.OrdenesProd.Iniciar)
	op.Post("/:id/terminar", deps.OrdenesProd.Terminar)
	op.Post("/:id/cancelar", deps.OrdenesProd.Cancelar)

	protected.Get("/trm", todos, deps.TRM.Actual)
}
