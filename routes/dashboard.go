package routes

import (
	handlers "laufmanager.de/handlers/dashboard"
	"laufmanager.de/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerDashboardRoutes defines the admin API under /api/dashboard and the
// broadcast endpoint /api/notify. Only runners with is_admin get through.
func registerDashboardRoutes(app *fiber.App, deps Dependencies) {
	eventHandler := handlers.NewEventHandler(deps.Events)
	attendeeHandler := handlers.NewAttendeeHandler(deps.Attendance)
	runnerHandler := handlers.NewRunnerHandler(deps.Runners)
	notifyHandler := handlers.NewNotifyHandler(deps.Notify)

	adminOnly := []fiber.Handler{
		middlewares.Authenticate(deps.secret()),
		middlewares.RequireRunner(deps.Runners),
		middlewares.RequireAdmin(),
	}

	app.Post("/api/notify", append(adminOnly, notifyHandler.Notify)...)

	dashboardGroup := app.Group("/api/dashboard", adminOnly...)

	// --- Events ---
	dashboardGroup.Get("/events", eventHandler.ListEvents)
	dashboardGroup.Post("/events", eventHandler.CreateEvent)
	dashboardGroup.Patch("/events/:id", eventHandler.UpdateEvent)
	dashboardGroup.Put("/events/:id", eventHandler.UpdateEvent)
	dashboardGroup.Delete("/events/:id", eventHandler.DeleteEvent)
	dashboardGroup.Post("/events/:id/duplicate", eventHandler.DuplicateEvent)

	// --- Attendees ---
	dashboardGroup.Get("/attendees", attendeeHandler.Roster)
	dashboardGroup.Get("/events/:id/attendees.csv", attendeeHandler.ExportCSV)

	// --- Runners ---
	dashboardGroup.Get("/runners", runnerHandler.ListRunners)
	dashboardGroup.Get("/runners.csv", runnerHandler.ExportCSV)
	dashboardGroup.Post("/runners/:id/ical", runnerHandler.ProvisionToken)

	// --- Mail ---
	dashboardGroup.Get("/mail/status", notifyHandler.MailStatus)
	dashboardGroup.Get("/messages", notifyHandler.Messages)
}
