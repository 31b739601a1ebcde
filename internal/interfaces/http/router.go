package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/catalog"
	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// Roles con acceso al formulario de movimientos.
const (
	RoleAdmin     = "admin"
	RoleBodeguero = "bodeguero"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions  *appinv.SessionRegistry
	Preview   *appinv.PreviewUseCase
	Voucher   *appinv.VoucherUseCase
	Catalogs  *catalog.Store
	Audit     *appinv.AuditUseCase // nil = bitácora desactivada
	JWTSecret string
	JWTIssuer string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Movimientos (admin y bodeguero)
	movHandler := NewMovementHandler(deps.Sessions, deps.Preview, deps.Voucher, deps.Log)
	movimientos := api.Group("/movimientos", RequireRole(RoleAdmin, RoleBodeguero))
	movimientos.Post("/validar", movHandler.Validate)
	movimientos.Post("/formularios", movHandler.CreateSession)
	movimientos.Get("/formularios/:id", movHandler.GetSession)
	movimientos.Put("/formularios/:id", movHandler.UpdateSession)
	movimientos.Delete("/formularios/:id", movHandler.CloseSession)
	movimientos.Post("/formularios/:id/stock", movHandler.ReloadStock)
	movimientos.Post("/formularios/:id/enviar", movHandler.Submit)
	movimientos.Get("/formularios/:id/comprobante", movHandler.DownloadVoucher)
	if deps.Audit != nil {
		movimientos.Get("/bitacora", NewAuditHandler(deps.Audit, deps.Log).List)
	}

	// Catálogos (cualquier usuario autenticado)
	catHandler := NewCatalogHandler(deps.Catalogs)
	catalogos := api.Group("/catalogos")
	catalogos.Get("/:tipo", catHandler.Get)
	catalogos.Post("/:tipo/recargar", catHandler.Reload)
}
