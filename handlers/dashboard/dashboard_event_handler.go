package handlers

import (
	"errors"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// EventHandler is the admin event management.
type EventHandler struct {
	events services.IEventService
}

// NewEventHandler returns the event handler.
func NewEventHandler(events services.IEventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.events.ListAll(c.UserContext())
	if err != nil {
		configslog.Log.Error("Dashboard - ListEvents failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Termine konnten nicht geladen werden")
	}
	return c.JSON(fiber.Map{"events": events})
}

func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var in services.EventInput
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige Anfrage")
	}
	event, err := h.events.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, "CreateEvent", err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) UpdateEvent(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige ID")
	}
	var in services.EventInput
	if err := c.BodyParser(&in); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige Anfrage")
	}
	event, err := h.events.Update(c.UserContext(), id, in)
	if err != nil {
		return h.fail(c, "UpdateEvent", err)
	}
	return c.JSON(event)
}

func (h *EventHandler) DeleteEvent(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige ID")
	}
	if err := h.events.Delete(c.UserContext(), id); err != nil {
		return h.fail(c, "DeleteEvent", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type duplicateRequest struct {
	EventDate string `json:"event_date"`
}

func (h *EventHandler) DuplicateEvent(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige ID")
	}
	var req duplicateRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige Anfrage")
	}
	event, err := h.events.Duplicate(c.UserContext(), id, req.EventDate)
	if err != nil {
		return h.fail(c, "DuplicateEvent", err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) fail(c *fiber.Ctx, op string, err error) error {
	switch {
	case errors.Is(err, services.ErrEventNotFound):
		return jsonError(c, fiber.StatusNotFound, "Termin nicht gefunden")
	case errors.Is(err, services.ErrEventDateRequired):
		return jsonError(c, fiber.StatusBadRequest, "Datum fehlt")
	case errors.Is(err, services.ErrEventInvalidInput):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}
	configslog.Log.Error("Dashboard - "+op+" failed", zap.Error(err))
	return jsonError(c, fiber.StatusInternalServerError, "Termin konnte nicht gespeichert werden")
}
