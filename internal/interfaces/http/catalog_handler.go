package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/catalog"
	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	"github.com/jhoicas/inventario-movimientos/internal/domain/entity"
)

// CatalogHandler catálogos de referencia (productos, locaciones, personas, proveedores, unidades).
type CatalogHandler struct {
	store *catalog.Store
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(store *catalog.Store) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// Get godoc
// @Summary      Catálogo
// @Description  Devuelve {status, data, error}. La primera consulta dispara la carga.
// @Tags         catalogos
// @Security     Bearer
// @Produce      json
// @Param        tipo  path      string  true  "productos | locaciones | personas | proveedores | unidades"
// @Success      200   {object}  catalog.State
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalogos/{tipo} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	kind, err := entity.ParseCatalogKind(c.Params("tipo"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "catálogo desconocido"})
	}
	state := h.store.Get(kind)
	if state.Status == catalog.StatusIdle {
		state = h.store.Reload(requestContext(c), kind)
	}
	return c.JSON(state)
}

// Reload godoc
// @Summary      Recargar catálogo
// @Tags         catalogos
// @Security     Bearer
// @Produce      json
// @Param        tipo  path      string  true  "tipo de catálogo"
// @Success      200   {object}  catalog.State
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/catalogos/{tipo}/recargar [post]
func (h *CatalogHandler) Reload(c *fiber.Ctx) error {
	kind, err := entity.ParseCatalogKind(c.Params("tipo"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "catálogo desconocido"})
	}
	return c.JSON(h.store.Reload(requestContext(c), kind))
}
