package routes

import (
	link_handlers "laufmanager.de/handlers/link"

	"github.com/gofiber/fiber/v2"
)

// registerPublicLinkRoutes exposes the token links calendar apps subscribe to.
// They carry no login; the token is the credential.
func registerPublicLinkRoutes(app *fiber.App, deps Dependencies) {
	feedHandler := link_handlers.NewFeedHandler(deps.Feeds)

	app.Get("/api/ical/:token", feedHandler.ServeFeed)
	app.Get("/api/ical", feedHandler.ServeFeed)
}
