package routes

import (
	panel_handlers "laufmanager.de/handlers/panel"
	"laufmanager.de/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes defines /api/panel for every logged-in runner.
func registerPanelRoutes(app *fiber.App, deps Dependencies) {
	meHandler := panel_handlers.NewPanelMeHandler(deps.Runners)
	eventHandler := panel_handlers.NewPanelEventHandler(deps.Attendance)

	panelGroup := app.Group("/api/panel")
	panelGroup.Use(
		middlewares.Authenticate(deps.secret()),
		middlewares.RequireRunner(deps.Runners),
	)

	panelGroup.Get("/me", meHandler.Show)
	panelGroup.Patch("/me", meHandler.Update)
	panelGroup.Post("/me/ical", meHandler.FeedLink)

	panelGroup.Get("/events", eventHandler.Board)
	panelGroup.Put("/events/:id/attendance", eventHandler.SetAttendance)
}
