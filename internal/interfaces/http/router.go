package http

import (
	"github.com/gofiber/fiber/v2"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/jhoicas/cartelera-api/internal/application/usecase"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC   *usecase.UserUseCase
	CourseUC *usecase.CourseUseCase
	ScreenUC *usecase.ScreenUseCase
	RoleUC   *usecase.RoleUseCase
	Keyfunc  gojwt.Keyfunc
	Issuer   string
	Logger   zerolog.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Keyfunc, deps.Issuer))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Users: las rutas fijas van antes de /:id.
	users := api.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.Logger)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/page", userHandler.Page)
	users.Get("/me", userHandler.Me)
	users.Get("/keycloak/:idKeycloak", userHandler.GetByKeycloakID)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", adminOnly, userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Remove)

	// Courses
	courses := api.Group("/courses")
	courseHandler := NewCourseHandler(deps.CourseUC)
	courses.Post("/", courseHandler.Create)
	courses.Get("/", courseHandler.List)
	courses.Get("/sector/:sectorId", courseHandler.ListBySector)
	courses.Get("/:id", courseHandler.GetByID)
	courses.Patch("/:id", courseHandler.Update)
	courses.Delete("/:id", courseHandler.Remove)

	// Screens
	screens := api.Group("/screens")
	screenHandler := NewScreenHandler(deps.ScreenUC)
	screens.Post("/", screenHandler.Create)
	screens.Get("/", screenHandler.List)
	screens.Get("/:id", screenHandler.GetByID)
	screens.Patch("/:id", screenHandler.Update)
	screens.Delete("/:id", screenHandler.Remove)

	// Roles
	api.Get("/roles", NewRoleHandler(deps.RoleUC).List)
}
