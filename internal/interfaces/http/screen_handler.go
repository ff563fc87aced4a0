package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/application/usecase"
)

// ScreenHandler maneja las peticiones HTTP para pantallas.
type ScreenHandler struct {
	uc *usecase.ScreenUseCase
}

func NewScreenHandler(uc *usecase.ScreenUseCase) *ScreenHandler {
	return &ScreenHandler{uc: uc}
}

// Create godoc
// @Summary      Crear pantalla
// @Tags         screens
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateScreenRequest  true  "Datos de la pantalla"
// @Success      201   {object}  dto.ScreenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/screens [post]
func (h *ScreenHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateScreenRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar pantallas
// @Tags         screens
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ScreenResponse
// @Router       /api/screens [get]
func (h *ScreenHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pantalla por ID
// @Tags         screens
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la pantalla"
// @Success      200  {object}  dto.ScreenResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/screens/{id} [get]
func (h *ScreenHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "pantalla")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar pantalla
// @Tags         screens
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID de la pantalla"
// @Param        body  body  dto.UpdateScreenRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ScreenResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/screens/{id} [patch]
func (h *ScreenHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "id")
	}
	var in dto.UpdateScreenRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Borrar pantalla (lógico)
// @Tags         screens
// @Security     Bearer
// @Param        id   path  int  true  "ID de la pantalla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/screens/{id} [delete]
func (h *ScreenHandler) Remove(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "id")
	}
	if err := h.uc.Remove(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
