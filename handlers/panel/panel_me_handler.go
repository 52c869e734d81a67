package handlers

import (
	"errors"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/middlewares"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelMeHandler serves the caller's own runner profile.
type PanelMeHandler struct {
	runners services.IRunnerService
}

// NewPanelMeHandler returns the profile handler.
func NewPanelMeHandler(runners services.IRunnerService) *PanelMeHandler {
	return &PanelMeHandler{runners: runners}
}

// Ensure creates or links the runner for the logged-in identity. It runs
// without RequireRunner since it is how the row comes to exist.
func (h *PanelMeHandler) Ensure(c *fiber.Ctx) error {
	id, ok := middlewares.IdentityFrom(c)
	if !ok {
		return jsonError(c, fiber.StatusUnauthorized, "Nicht angemeldet")
	}
	runner, created, err := h.runners.EnsureRunner(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrRunnerInvalidIdentity) {
			return jsonError(c, fiber.StatusBadRequest, "Anmeldung ohne E-Mail-Adresse")
		}
		configslog.Log.Error("Panel - Ensure runner failed", zap.String("subject", id.Subject), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Profil konnte nicht angelegt werden")
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(runnerView{Runner: runner, FeedURL: h.runners.FeedURL(runner)})
}

func (h *PanelMeHandler) Show(c *fiber.Ctx) error {
	runner, err := currentRunner(c)
	if err != nil {
		return err
	}
	return c.JSON(runnerView{Runner: runner, FeedURL: h.runners.FeedURL(runner)})
}

type updateMeRequest struct {
	DisplayName string `json:"display_name"`
}

func (h *PanelMeHandler) Update(c *fiber.Ctx) error {
	runner, err := currentRunner(c)
	if err != nil {
		return err
	}
	var req updateMeRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige Anfrage")
	}
	updated, err := h.runners.UpdateDisplayName(c.UserContext(), runner.ID, req.DisplayName)
	if err != nil {
		if errors.Is(err, services.ErrRunnerInvalidName) {
			return jsonError(c, fiber.StatusBadRequest, "Der Name muss 1 bis 120 Zeichen lang sein")
		}
		configslog.Log.Error("Panel - Update display name failed", zap.Uint("runner_id", runner.ID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Name konnte nicht gespeichert werden")
	}
	return c.JSON(runnerView{Runner: updated, FeedURL: h.runners.FeedURL(updated)})
}

// FeedLink provisions the caller's feed token if needed and returns the subscription URL.
func (h *PanelMeHandler) FeedLink(c *fiber.Ctx) error {
	runner, err := currentRunner(c)
	if err != nil {
		return err
	}
	updated, err := h.runners.ProvisionToken(c.UserContext(), runner.ID)
	if err != nil {
		configslog.Log.Error("Panel - Provision feed token failed", zap.Uint("runner_id", runner.ID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Kalenderlink konnte nicht erstellt werden")
	}
	return c.JSON(fiber.Map{"url": h.runners.FeedURL(updated)})
}
