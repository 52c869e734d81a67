package routes

import (
	panel_handlers "laufmanager.de/handlers/panel"
	"laufmanager.de/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAuthRoutes holds the one route that needs a valid login but no
// runner row yet: the first call after login creates or links it.
func registerAuthRoutes(app *fiber.App, deps Dependencies) {
	meHandler := panel_handlers.NewPanelMeHandler(deps.Runners)

	app.Post("/api/panel/me", middlewares.Authenticate(deps.secret()), meHandler.Ensure)
}
