package handlers

import (
	"bytes"
	"errors"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/pkg/csvexport"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RunnerHandler is the admin member list.
type RunnerHandler struct {
	runners services.IRunnerService
}

// NewRunnerHandler returns the runner handler.
func NewRunnerHandler(runners services.IRunnerService) *RunnerHandler {
	return &RunnerHandler{runners: runners}
}

type runnerRow struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	IsAdmin     bool   `json:"is_admin"`
	FeedURL     string `json:"feed_url,omitempty"`
}

func (h *RunnerHandler) row(r *models.Runner) runnerRow {
	return runnerRow{ID: r.ID, DisplayName: r.Name(), Email: r.Email, IsAdmin: r.IsAdmin, FeedURL: h.runners.FeedURL(r)}
}

func (h *RunnerHandler) ListRunners(c *fiber.Ctx) error {
	runners, err := h.runners.List(c.UserContext(), c.Query("q"))
	if err != nil {
		configslog.Log.Error("Dashboard - ListRunners failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Läufer konnten nicht geladen werden")
	}
	rows := make([]runnerRow, 0, len(runners))
	for i := range runners {
		rows = append(rows, h.row(&runners[i]))
	}
	return c.JSON(fiber.Map{"runners": rows})
}

func (h *RunnerHandler) ExportCSV(c *fiber.Ctx) error {
	runners, err := h.runners.List(c.UserContext(), "")
	if err != nil {
		configslog.Log.Error("Dashboard - runner export failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Export fehlgeschlagen")
	}
	var buf bytes.Buffer
	if err := csvexport.WriteRunners(&buf, runners); err != nil {
		configslog.Log.Error("Dashboard - runner CSV failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Export fehlgeschlagen")
	}
	return sendCSV(c, "laeufer_export.csv", buf.Bytes())
}

// ProvisionToken issues a feed token for a runner that has none.
func (h *RunnerHandler) ProvisionToken(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige ID")
	}
	runner, err := h.runners.ProvisionToken(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrRunnerNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Läufer nicht gefunden")
		}
		configslog.Log.Error("Dashboard - ProvisionToken failed", zap.Uint("runner_id", id), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Kalenderlink konnte nicht erstellt werden")
	}
	return c.JSON(h.row(runner))
}
