package routes

import (
	"errors"
	"strings"

	"laufmanager.de/configs"
	"laufmanager.de/configs/configslog"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Config     *configs.AppConfig
	Feeds      services.IFeedService
	Notify     services.INotifyService
	Attendance services.IAttendanceService
	Runners    services.IRunnerService
	Events     services.IEventService
}

func (d Dependencies) secret() []byte {
	return []byte(d.Config.Auth.JWTSecret)
}

// NewApp builds the fiber app with every route registered.
func NewApp(deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "laufmanager",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	SetupRoutes(app, deps)
	return app
}

// SetupRoutes registers middleware and route groups. Order matters: the
// runner bootstrap route must come before the /api/panel group guard.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins(deps.Config.Server.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })

	registerPublicLinkRoutes(app, deps)
	registerAuthRoutes(app, deps)
	registerPanelRoutes(app, deps)
	registerDashboardRoutes(app, deps)

	app.Use(notFoundHandler)
}

func allowedOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Nicht gefunden"})
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Interner Fehler"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		configslog.Log.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}
