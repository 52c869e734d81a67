package handlers

import (
	"errors"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PanelEventHandler is the runner's event board.
type PanelEventHandler struct {
	attendance services.IAttendanceService
}

// NewPanelEventHandler returns the runner's board handler.
func NewPanelEventHandler(attendance services.IAttendanceService) *PanelEventHandler {
	return &PanelEventHandler{attendance: attendance}
}

// Board lists upcoming runs with the caller's own status.
func (h *PanelEventHandler) Board(c *fiber.Ctx) error {
	runner, err := currentRunner(c)
	if err != nil {
		return err
	}
	board, err := h.attendance.Board(c.UserContext(), runner.ID)
	if err != nil {
		configslog.Log.Error("Panel - Board failed", zap.Uint("runner_id", runner.ID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Termine konnten nicht geladen werden")
	}
	return c.JSON(fiber.Map{"events": board})
}

type attendanceRequest struct {
	Status string `json:"status"`
}

// SetAttendance records the caller's yes or no for one event.
func (h *PanelEventHandler) SetAttendance(c *fiber.Ctx) error {
	runner, err := currentRunner(c)
	if err != nil {
		return err
	}
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige ID")
	}
	var req attendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige Anfrage")
	}
	status, ok := models.ParseAttendanceStatus(req.Status)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Status muss yes oder no sein")
	}

	eventID := uint(id)
	if err := h.attendance.SetStatus(c.UserContext(), runner.ID, eventID, status); err != nil {
		switch {
		case errors.Is(err, services.ErrAttendanceEventNotFound):
			return jsonError(c, fiber.StatusNotFound, "Termin nicht gefunden")
		case errors.Is(err, services.ErrAttendanceInvalidStatus):
			return jsonError(c, fiber.StatusBadRequest, "Status muss yes oder no sein")
		}
		configslog.Log.Error("Panel - SetAttendance failed", zap.Uint("runner_id", runner.ID), zap.Uint("event_id", eventID), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Zusage konnte nicht gespeichert werden")
	}

	confirmed, err := h.attendance.CountConfirmed(c.UserContext(), eventID)
	if err != nil {
		configslog.Log.Warn("Panel - CountConfirmed after SetAttendance failed", zap.Uint("event_id", eventID), zap.Error(err))
	}
	return c.JSON(fiber.Map{"event_id": eventID, "status": status, "confirmed": confirmed})
}
