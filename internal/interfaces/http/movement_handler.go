package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-movimientos/internal/application/dto"
	appinv "github.com/jhoicas/inventario-movimientos/internal/application/inventory"
	"github.com/jhoicas/inventario-movimientos/internal/domain"
	"github.com/jhoicas/inventario-movimientos/internal/infrastructure/inventoryapi"
	"github.com/jhoicas/inventario-movimientos/pkg/logger"
)

// MovementHandler sesiones del formulario de movimientos y validación suelta (protegido).
type MovementHandler struct {
	sessions *appinv.SessionRegistry
	preview  *appinv.PreviewUseCase
	voucher  *appinv.VoucherUseCase
	log      *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(
	sessions *appinv.SessionRegistry,
	preview *appinv.PreviewUseCase,
	voucher *appinv.VoucherUseCase,
	log *logger.Logger,
) *MovementHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementHandler{
		sessions: sessions,
		preview:  preview,
		voucher:  voucher,
		log:      log.Component("movement_handler"),
	}
}

// CreateSession godoc
// @Summary      Abrir formulario de movimiento
// @Description  Crea una sesión con el formulario por defecto (ingreso hacia la bodega central).
// @Description  Si se envía un cuerpo, se aplica como primera edición.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementFormRequest  false  "formulario inicial"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movimientos/formularios [post]
func (h *MovementHandler) CreateSession(c *fiber.Ctx) error {
	var in *dto.MovementFormRequest
	if len(c.Body()) > 0 {
		in = &dto.MovementFormRequest{}
		if err := c.BodyParser(in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	sess := h.sessions.Create(GetUserID(c))
	view := sess.View()
	if in != nil {
		v, err := sess.Update(requestContext(c), in.ToForm())
		if err != nil {
			return writeError(c, err)
		}
		view = v
	}
	h.log.Info().Str("sesion_id", sess.ID()).Str("user_id", GetUserID(c)).Msg("formulario de movimiento abierto")
	return c.Status(fiber.StatusCreated).JSON(dto.NewSessionResponse(view))
}

// GetSession godoc
// @Summary      Estado del formulario
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/formularios/{id} [get]
func (h *MovementHandler) GetSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(sess.View()))
}

// UpdateSession godoc
// @Summary      Editar formulario
// @Description  Reemplaza el formulario completo. Relanza la consulta de stock si cambió el par producto/ubicación.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "id de sesión"
// @Param        body  body      dto.MovementFormRequest  true  "formulario"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movimientos/formularios/{id} [put]
func (h *MovementHandler) UpdateSession(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	var in dto.MovementFormRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	view, err := sess.Update(requestContext(c), in.ToForm())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(view))
}

// ReloadStock godoc
// @Summary      Reintentar consulta de stock
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {object}  dto.SessionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/formularios/{id}/stock [post]
func (h *MovementHandler) ReloadStock(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSessionResponse(sess.ReloadStock(requestContext(c))))
}

// Submit godoc
// @Summary      Enviar movimiento
// @Description  Valida, verifica stock (uso) y crea el movimiento en la API de inventario.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "id de sesión"
// @Success      201  {object}  dto.SubmitResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ValidationErrorResponse
// @Failure      502  {object}  dto.UpstreamErrorResponse
// @Router       /api/movimientos/formularios/{id}/enviar [post]
func (h *MovementHandler) Submit(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	res, err := sess.Submit(requestContext(c))
	if err != nil {
		return writeError(c, err)
	}

	switch res.State {
	case appinv.SubmissionSuccess:
		view := sess.View()
		return c.Status(fiber.StatusCreated).JSON(dto.SubmitResponse{
			Movement:     res.Created,
			Confirmation: view.Confirmation,
			Session:      dto.NewSessionResponse(view),
		})
	case appinv.SubmissionError:
		return c.Status(upstreamStatus(res.Err)).JSON(dto.UpstreamErrorResponse{
			Code:    "UPSTREAM",
			Message: res.Err.Message,
			Error:   res.Err,
		})
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ValidationErrorResponse{
			Code:    "VALIDATION",
			Message: "El formulario tiene errores.",
			Errors:  res.Errors,
		})
	}
}

// CloseSession godoc
// @Summary      Cerrar formulario
// @Description  Cancela cualquier consulta de stock pendiente y elimina la sesión.
// @Tags         movimientos
// @Security     Bearer
// @Param        id   path  string  true  "id de sesión"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/formularios/{id} [delete]
func (h *MovementHandler) CloseSession(c *fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("id"), GetUserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadVoucher godoc
// @Summary      Comprobante PDF del último movimiento registrado
// @Tags         movimientos
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "id de sesión"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/formularios/{id}/comprobante [get]
func (h *MovementHandler) DownloadVoucher(c *fiber.Ctx) error {
	sess, err := h.sessions.Get(c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	data, filename, err := h.voucher.ForSession(c.UserContext(), sess.View(), GetUserID(c))
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "la sesión aún no registró movimientos"})
	}
	if err != nil {
		h.log.Error().Err(err).Str("sesion_id", sess.ID()).Msg("generar comprobante")
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Validate godoc
// @Summary      Validar movimiento sin enviarlo
// @Description  Devuelve los errores por campo y, si es válido, el payload que se enviaría.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.MovementFormRequest  true  "formulario"
// @Success      200   {object}  dto.ValidateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/movimientos/validar [post]
func (h *MovementHandler) Validate(c *fiber.Ctx) error {
	var in dto.MovementFormRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res := h.preview.Preview(requestContext(c), in.ToForm())
	return c.JSON(dto.NewValidateResponse(res))
}

// requestContext propaga el token del usuario y el request id hacia la API de inventario.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := inventoryapi.WithToken(c.UserContext(), GetToken(c))
	if id := GetRequestID(c); id != "" {
		ctx = inventoryapi.WithRequestID(ctx, id)
	}
	return ctx
}

func upstreamStatus(apiErr *domain.APIError) int {
	if apiErr == nil {
		return fiber.StatusBadGateway
	}
	switch apiErr.Status {
	case fiber.StatusUnauthorized, fiber.StatusForbidden, fiber.StatusServiceUnavailable:
		return apiErr.Status
	default:
		return fiber.StatusBadGateway
	}
}

func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "formulario no encontrado o expirado"})
	case errors.Is(err, domain.ErrSubmissionInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SUBMISSION_IN_PROGRESS", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
