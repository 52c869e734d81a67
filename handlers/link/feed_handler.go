package handlers

import (
	"errors"
	"fmt"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FeedHandler serves the public calendar subscription links.
type FeedHandler struct {
	feeds services.IFeedService
}

// NewFeedHandler returns a handler serving feeds built by feeds.
func NewFeedHandler(feeds services.IFeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// ServeFeed answers GET /api/ical/:token. Calendar clients poll this, so
// nothing along the way may cache the answer.
func (h *FeedHandler) ServeFeed(c *fiber.Ctx) error {
	token := c.Params("token")

	feed, err := h.feeds.BuildFeed(c.UserContext(), token)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFeedMissingToken):
			return c.Status(fiber.StatusBadRequest).SendString("Missing token")
		case errors.Is(err, services.ErrFeedNotFound):
			return c.Status(fiber.StatusNotFound).SendString("Not found")
		default:
			configslog.Log.Error("ServeFeed: feed could not be built", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).SendString("Feed unavailable")
		}
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", feed.Filename))
	c.Set(fiber.HeaderCacheControl, "no-cache, no-store, must-revalidate")
	c.Set(fiber.HeaderPragma, "no-cache")
	c.Set(fiber.HeaderExpires, "0")
	configslog.Log.Debug("Feed served", zap.Uint("runner_id", feed.RunnerID), zap.Int("entries", feed.Entries))
	return c.Status(fiber.StatusOK).Send(feed.Body)
}
