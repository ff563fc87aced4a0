package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/application/usecase"
)

// CourseHandler maneja las peticiones HTTP para cursos.
type CourseHandler struct {
	uc *usecase.CourseUseCase
}

func NewCourseHandler(uc *usecase.CourseUseCase) *CourseHandler {
	return &CourseHandler{uc: uc}
}

// Create godoc
// @Summary      Crear curso
// @Tags         courses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateCourseRequest  true  "Datos del curso"
// @Success      201   {object}  dto.CourseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/courses [post]
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCourseRequest
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
// @Summary      Listar cursos
// @Tags         courses
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CourseResponse
// @Router       /api/courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListBySector godoc
// @Summary      Cursos de un sector
// @Tags         courses
// @Security     Bearer
// @Produce      json
// @Param        sectorId  path  int  true  "ID del sector"
// @Success      200  {array}  dto.CourseResponse
// @Router       /api/courses/sector/{sectorId} [get]
func (h *CourseHandler) ListBySector(c *fiber.Ctx) error {
	sectorID, ok := paramID(c, "sectorId")
	if !ok {
		return badID(c, "sectorId")
	}
	out, err := h.uc.ListBySector(c.UserContext(), sectorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener curso por ID
// @Tags         courses
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del curso"
// @Success      200  {object}  dto.CourseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/courses/{id} [get]
func (h *CourseHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "id")
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return notFound(c, "curso")
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar curso
// @Tags         courses
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int                      true  "ID del curso"
// @Param        body  body  dto.UpdateCourseRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CourseResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/courses/{id} [patch]
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "id")
	}
	var in dto.UpdateCourseRequest
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
// @Summary      Borrar curso (lógico)
// @Tags         courses
// @Security     Bearer
// @Param        id   path  int  true  "ID del curso"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/courses/{id} [delete]
func (h *CourseHandler) Remove(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c, "id")
	}
	if err := h.uc.Remove(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
