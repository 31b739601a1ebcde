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

	"github.com/jhoicas/inventario-movimientos/internal/application/catalog"
	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain/repository"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/inventoryapi"
	infrapdf "github.com/jhoicas/inventario-movimientos/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-movimientos/internal/interfaces/http"
	"github.com/jhoicas/inventario-movimientos/pkg/config"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

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
		Str("inventory_api", cfg.InventoryAPI.BaseURL).
		Int64("bodega_central", cfg.Inventory.CentralLocationID).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	inventoryClient := inventoryapi.New(inventoryapi.Config{
		BaseURL: cfg.InventoryAPI.BaseURL,
		Timeout: cfg.InventoryAPI.Timeout(),
		Breaker: inventoryapi.BreakerSettings{
			MaxRequests:         uint32(cfg.Breaker.MaxRequests),
			ConsecutiveFailures: uint32(cfg.Breaker.ConsecutiveFailures),
			OpenTimeout:         time.Duration(cfg.Breaker.OpenSeconds) * time.Second,
		},
	}, log)

	// Catálogos: carga perezosa con el token del primer usuario que los pide.
	catalogStore := catalog.NewStore(inventoryClient, log.Component("catalogos"))

	confirmations := appinv.NewConfirmationBuilder(catalogStore)

	// Bitácora de envíos: opcional, solo si hay base de datos configurada.
	var (
		auditRepo repository.SubmissionAuditRepository
		auditUC   *appinv.AuditUseCase
	)
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(context.Background(), cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conectar base de datos de bitácora")
		}
		defer pool.Close()
		repo := postgres.NewSubmissionAuditRepository(pool)
		auditRepo = repo
		auditUC = appinv.NewAuditUseCase(repo)
		log.Info().Str("db_host", cfg.DB.Host).Msg("bitácora de envíos activa")
	} else {
		log.Warn().Msg("sin base de datos: bitácora de envíos desactivada")
	}

	sessions := appinv.NewSessionRegistry(appinv.SessionDeps{
		CentralID:     cfg.Inventory.CentralLocationID,
		Stock:         inventoryClient,
		Submitter:     inventoryClient,
		Confirmations: confirmations,
		Audit:         auditRepo,
		Log:           log,
	}, cfg.Sessions.MaxIdle())
	preview := appinv.NewPreviewUseCase(cfg.Inventory.CentralLocationID, inventoryClient)

	// PDF: comprobante imprimible del movimiento registrado
	voucher := appinv.NewVoucherUseCase(infrapdf.NewMarotoPDFGenerator(cfg.App.Name), confirmations, nil)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweepSessions(sweepCtx, sessions, cfg.Sessions.MaxIdle(), log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Movimientos de inventario",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "ok",
			"service":       cfg.App.Name,
			"inventory_api": inventoryClient.BreakerState(),
			"form_sessions": sessions.Len(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:  sessions,
		Preview:   preview,
		Voucher:   voucher,
		Catalogs:  catalogStore,
		Audit:     auditUC,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
		Log:       log,
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
	stopSweep()
	sessions.CloseAll()

	log.Info().Msg("aplicación detenida")
}

// sweepSessions expira periódicamente los formularios abandonados.
func sweepSessions(ctx context.Context, sessions *appinv.SessionRegistry, maxIdle time.Duration, log *logger.Logger) {
	if maxIdle <= 0 {
		return
	}
	interval := maxIdle / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(); n > 0 {
				log.Info().Int("sesiones", n).Msg("formularios inactivos expirados")
			}
		}
	}
}
