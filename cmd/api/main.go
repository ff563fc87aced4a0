package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/cartelera-api/docs"
	"github.com/jhoicas/cartelera-api/internal/application/ports"
	"github.com/jhoicas/cartelera-api/internal/application/provisioning"
	"github.com/jhoicas/cartelera-api/internal/application/usecase"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/keycloak"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/metrics"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/postgres"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/cartelera-api/internal/interfaces/http"
	"github.com/jhoicas/cartelera-api/pkg/config"
	"github.com/jhoicas/cartelera-api/pkg/jwt"
	"github.com/jhoicas/cartelera-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	courseRepo := postgres.NewCourseRepository(pool)
	screenRepo := postgres.NewScreenRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)

	appMetrics := metrics.New()
	idp := keycloak.New(cfg.Keycloak, nil, log.Zerolog())
	saga := provisioning.NewSaga(userRepo, idp, provisioning.Config{
		StepTimeout: cfg.Saga.StepTimeout,
		BcryptCost:  provisioning.DefaultBcryptCost,
	}, log.Zerolog(), appMetrics)

	// Sin REDIS_ADDR los eventos solo quedan en el log.
	var notifier ports.Notifier = realtime.NewLogNotifier(log.Zerolog())
	var redisNotifier *realtime.RedisNotifier
	if cfg.Redis.Addr != "" {
		redisNotifier = realtime.NewRedisNotifier(cfg.Redis, log.Zerolog())
		defer redisNotifier.Close()
		notifier = redisNotifier
	}

	var keyFunc gojwt.Keyfunc
	if cfg.Auth.JWTSecret != "" {
		log.Warn().Msg("JWT_SECRET definido: se aceptan tokens HS256 locales en lugar de los de Keycloak")
		keyFunc = jwt.HMACKeyfunc(cfg.Auth.JWTSecret)
	} else {
		keyFunc, err = jwt.JWKSKeyfunc(ctx, cfg.Auth.JWKSURL)
		if err != nil {
			log.Fatal().Err(err).Str("jwks_url", cfg.Auth.JWKSURL).Msg("claves JWKS")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.MetricsMiddleware(appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Title = cfg.App.Name
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Cartelera API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		checkCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status, code := "ok", fiber.StatusOK
		db := "ok"
		if err := pool.Ping(checkCtx); err != nil {
			db, status, code = "fail", "degraded", fiber.StatusServiceUnavailable
		}
		body := fiber.Map{"status": status, "service": cfg.App.Name, "db": db}
		if redisNotifier != nil {
			body["redis"] = "ok"
			if err := redisNotifier.Ping(checkCtx); err != nil {
				// Redis solo afecta las notificaciones; no degrada el servicio.
				body["redis"] = "fail"
			}
		}
		return c.Status(code).JSON(body)
	})
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		UserUC:   usecase.NewUserUseCase(userRepo, saga, provisioning.DefaultBcryptCost),
		CourseUC: usecase.NewCourseUseCase(courseRepo, notifier, log.Zerolog()),
		ScreenUC: usecase.NewScreenUseCase(screenRepo),
		RoleUC:   usecase.NewRoleUseCase(roleRepo),
		Keyfunc:  keyFunc,
		Issuer:   cfg.Auth.Issuer,
		Logger:   log.Zerolog(),
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

	log.Info().Msg("aplicación detenida")
}
