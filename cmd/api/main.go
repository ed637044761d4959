package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/erp-manufactura/internal/application/auth"
	"github.com/jhoicas/erp-manufactura/internal/application/compras"
	"github.com/jhoicas/erp-manufactura/internal/application/ports"
	"github.com/jhoicas/erp-manufactura/internal/application/produccion"
	"github.com/jhoicas/erp-manufactura/internal/application/usecase"
	infraexcel "github.com/jhoicas/erp-manufactura/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/erp-manufactura/internal/infrastructure/pdf"
	"github.com/jhoicas/erp-manufactura/internal/infrastructure/postgres"
	infratrm "github.com/jhoicas/erp-manufactura/internal/infrastructure/trm"
	"github.com/jhoicas/erp-manufactura/internal/infrastructure/ubl"
	httpRouter "github.com/jhoicas/erp-manufactura/internal/interfaces/http"
	"github.com/jhoicas/erp-manufactura/pkg/config"
	"github.com/jhoicas/erp-manufactura/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	proveedorRepo := postgres.NewProveedorRepository(pool)
	mpRepo := postgres.NewMateriaPrimaRepository(pool)
	movRepo := postgres.NewMovimientoRepository(pool)
	ordenRepo := postgres.NewOrdenCompraRepository(pool)
	recepcionRepo := postgres.NewRecepcionRepository(pool)
	pagoRepo := postgres.NewPagoRepository(pool)
	activoRepo := postgres.NewActivoRepository(pool)
	produccionRepo := postgres.NewOrdenProduccionRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// TRM: Redis si está configurado, si no caché en memoria del proceso.
	var trmCache infratrm.Cache = infratrm.NewMemoryCache()
	if cfg.Redis.URL != "" {
		rdb, err := infratrm.ConnectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, TRM con caché en memoria")
		} else {
			defer rdb.Close()
			trmCache = infratrm.NewRedisCache(rdb)
		}
	}
	trmProvider := infratrm.NewDatosGovProvider(cfg.TRM.URL, cfg.TRM.Timeout, cfg.TRM.CacheTTL, trmCache, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if cfg.App.AdminEmail != "" {
		created, err := authUC.EnsureAdmin(ctx, cfg.App.AdminEmail, cfg.App.AdminPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("crear administrador inicial")
		}
		if created {
			log.Info().Str("email", cfg.App.AdminEmail).Msg("administrador inicial creado")
		}
	}

	empresa := ports.Empresa{
		Nombre:    cfg.Empresa.Nombre,
		NIT:       cfg.Empresa.NIT,
		Direccion: cfg.Empresa.Direccion,
		Ciudad:    cfg.Empresa.Ciudad,
		Telefono:  cfg.Empresa.Telefono,
		Email:     cfg.Empresa.Email,
	}
	ordenUC := compras.NewOrdenCompraUseCase(ordenRepo, proveedorRepo, mpRepo, activoRepo, txRunner, trmProvider)
	documentosUC := compras.NewDocumentosUseCase(
		ordenRepo, proveedorRepo, empresa,
		ubl.NewOrderBuilder(), infrapdf.NewMarotoPDFGenerator(), infraexcel.NewOrdenExcelGenerator(),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "ERP Manufactura API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth:           httpRouter.NewAuthHandler(authUC, usecase.NewUserUseCase(userRepo)),
		Proveedores:    httpRouter.NewProveedorHandler(usecase.NewProveedorUseCase(proveedorRepo)),
		MateriasPrimas: httpRouter.NewMateriaPrimaHandler(usecase.NewMateriaPrimaUseCase(mpRepo, movRepo, txRunner)),
		OrdenesCompra:  httpRouter.NewOrdenCompraHandler(ordenUC, documentosUC),
		Recepciones:    httpRouter.NewRecepcionHandler(compras.NewRecepcionUseCase(ordenRepo, mpRepo, recepcionRepo, txRunner)),
		Pagos:          httpRouter.NewPagoHandler(compras.NewPagoUseCase(ordenRepo, pagoRepo, txRunner)),
		Activos:        httpRouter.NewActivoHandler(usecase.NewActivoUseCase(activoRepo, ordenRepo)),
		OrdenesProd:    httpRouter.NewOrdenProduccionHandler(produccion.NewOrdenProduccionUseCase(produccionRepo, mpRepo, txRunner)),
		TRM:            httpRouter.NewTRMHandler(compras.NewTRMUseCase(trmProvider)),
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
