package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// ContactHandler formulario de contacto (envío público, lectura protegida).
type ContactHandler struct {
	uc *usecase.ContactUseCase
}

// NewContactHandler construye el handler.
func NewContactHandler(uc *usecase.ContactUseCase) *ContactHandler {
	return &ContactHandler{uc: uc}
}

// Submit godoc
// @Summary      Enviar mensaje de contacto
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ContactMessageRequest  true  "name, email, subject, message"
// @Success      201   {object}  dto.ContactMessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contact-messages [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var in dto.ContactMessageRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Submit(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar mensajes de contacto
// @Tags         contact
// @Security     Bearer
// @Produce      json
// @Param        unread  query  bool  false  "Solo no leídos"
// @Param        limit   query  int   false  "Límite"  default(20)
// @Param        offset  query  int   false  "Offset"  default(0)
// @Success      200     {array}  dto.ContactMessageResponse
// @Router       /api/contact-messages [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	unread := optionalBool(c, "unread")
	out, err := h.uc.List(c.UserContext(), unread != nil && *unread, pageRequest(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar mensaje como leído
// @Tags         contact
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/contact-messages/{id}/read [patch]
func (h *ContactHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
