package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-backoffice/internal/application/dto"
	"github.com/jhoicas/pos-backoffice/internal/application/usecase"
)

// OperatorHandler gestión de operadores de la organización.
type OperatorHandler struct {
	uc *usecase.OperatorUseCase
}

// NewOperatorHandler construye el handler.
func NewOperatorHandler(uc *usecase.OperatorUseCase) *OperatorHandler {
	return &OperatorHandler{uc: uc}
}

// Create godoc
// @Summary      Crear operador
// @Description  El username se deriva del nombre. Si no se envía password se genera y se devuelve una sola vez.
// @Tags         operators
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOperatorRequest  true  "full_name, phone, email, password, address"
// @Success      201   {object}  dto.OperatorCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operators [post]
func (h *OperatorHandler) Create(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	var in dto.CreateOperatorRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), orgID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar operadores
// @Tags         operators
// @Security     Bearer
// @Produce      json
// @Param        full_name    query  string  false  "Nombre (parcial)"
// @Param        phone        query  string  false  "Teléfono (parcial)"
// @Param        is_active    query  bool    false  "Activos"
// @Param        is_verified  query  bool    false  "Verificados"
// @Success      200          {array}  dto.UserResponse
// @Router       /api/operators [get]
func (h *OperatorHandler) List(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	q := dto.OperatorListQuery{
		FullName:   c.Query("full_name"),
		Phone:      c.Query("phone"),
		IsActive:   optionalBool(c, "is_active"),
		IsVerified: optionalBool(c, "is_verified"),
	}
	out, err := h.uc.List(c.UserContext(), orgID, q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener operador
// @Tags         operators
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operators/{id} [get]
func (h *OperatorHandler) GetByID(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.GetByID(c.UserContext(), orgID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Dar de baja un operador
// @Tags         operators
// @Security     Bearer
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/operators/{id} [delete]
func (h *OperatorHandler) Delete(c *fiber.Ctx) error {
	orgID, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	if err := h.uc.Delete(c.UserContext(), orgID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
