package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// AuditHandler bitácora de envíos (protegido).
type AuditHandler struct {
	uc  *appinv.AuditUseCase
	log *logger.Logger
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *appinv.AuditUseCase, log *logger.Logger) *AuditHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuditHandler{uc: uc, log: log.Component("audit_handler")}
}

// List godoc
// @Summary      Bitácora de envíos
// @Description  Envíos que llegaron a la API de inventario, más recientes primero.
// @Description  Un bodeguero solo ve los suyos; un admin ve todos o filtra por user_id.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        limit    query     int     false  "máximo de registros (por defecto 20, tope 100)"
// @Param        offset   query     int     false  "desplazamiento"
// @Param        user_id  query     string  false  "solo admin: filtrar por usuario"
// @Success      200      {object}  dto.AuditListResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/movimientos/bitacora [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de página inválidos"})
	}
	page.DefaultPage()

	userID := GetUserID(c)
	if GetRole(c) == RoleAdmin {
		userID = c.Query("user_id")
	}
	items, err := h.uc.Recent(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		h.log.Error().Err(err).Msg("consulta de bitácora")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo consultar la bitácora"})
	}
	return c.JSON(dto.AuditListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}
