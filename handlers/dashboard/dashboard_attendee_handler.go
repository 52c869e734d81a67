package handlers

import (
	"bytes"
	"errors"
	"fmt"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/pkg/csvexport"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AttendeeHandler shows who is coming to which run.
type AttendeeHandler struct {
	attendance services.IAttendanceService
}

// NewAttendeeHandler returns the attendee handler.
func NewAttendeeHandler(attendance services.IAttendanceService) *AttendeeHandler {
	return &AttendeeHandler{attendance: attendance}
}

// Roster lists the upcoming runs with their attendees.
func (h *AttendeeHandler) Roster(c *fiber.Ctx) error {
	roster, err := h.attendance.Roster(c.UserContext())
	if err != nil {
		configslog.Log.Error("Dashboard - Roster failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Teilnehmer konnten nicht geladen werden")
	}
	return c.JSON(fiber.Map{"events": roster})
}

// ExportCSV downloads the attendees of one event.
func (h *AttendeeHandler) ExportCSV(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige ID")
	}
	attendees, err := h.attendance.EventAttendees(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, services.ErrAttendanceEventNotFound) {
			return jsonError(c, fiber.StatusNotFound, "Termin nicht gefunden")
		}
		configslog.Log.Error("Dashboard - attendee export failed", zap.Uint("event_id", id), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Export fehlgeschlagen")
	}

	var buf bytes.Buffer
	if err := csvexport.WriteAttendees(&buf, attendees); err != nil {
		configslog.Log.Error("Dashboard - attendee CSV failed", zap.Uint("event_id", id), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Export fehlgeschlagen")
	}
	return sendCSV(c, fmt.Sprintf("teilnehmer_%d.csv", id), buf.Bytes())
}
