package handlers

import (
	"laufmanager.de/middlewares"
	"laufmanager.de/models"

	"github.com/gofiber/fiber/v2"
)

// runnerView is a runner as its owner sees it, with the subscription link.
type runnerView struct {
	*models.Runner
	FeedURL string `json:"feed_url,omitempty"`
}

func currentRunner(c *fiber.Ctx) (*models.Runner, error) {
	r, ok := middlewares.RunnerFrom(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Kein Läuferprofil vorhanden")
	}
	return r, nil
}

func jsonError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
