package handlers

import (
	"errors"
	"strconv"
	"strings"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// NotifyHandler sends broadcasts and reports on the mail setup.
type NotifyHandler struct {
	notify services.INotifyService
}

// NewNotifyHandler returns a handler backed by notify.
func NewNotifyHandler(notify services.INotifyService) *NotifyHandler {
	return &NotifyHandler{notify: notify}
}

// notifyRequest accepts the field names of older clients: body for text and eventId for event_id.
type notifyRequest struct {
	Text       string      `json:"text"`
	Body       string      `json:"body"`
	Scope      string      `json:"scope"`
	EventID    interface{} `json:"event_id"`
	EventIDOld interface{} `json:"eventId"`
}

func (r notifyRequest) text() string {
	if strings.TrimSpace(r.Text) != "" {
		return r.Text
	}
	return r.Body
}

func (r notifyRequest) eventID() (*uint, error) {
	raw := r.EventID
	if raw == nil {
		raw = r.EventIDOld
	}
	var n uint64
	var err error
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case float64:
		if v < 0 || v != float64(uint64(v)) {
			return nil, strconv.ErrSyntax
		}
		n = uint64(v)
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		n, err = strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, err
		}
	default:
		return nil, strconv.ErrSyntax
	}
	if n == 0 {
		return nil, nil
	}
	id := uint(n)
	return &id, nil
}

// Notify answers POST /api/notify.
func (h *NotifyHandler) Notify(c *fiber.Ctx) error {
	var req notifyRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige Anfrage")
	}
	eventID, err := req.eventID()
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "Ungültige event_id")
	}

	report, err := h.notify.Dispatch(c.UserContext(), services.DispatchRequest{
		Scope:   req.Scope,
		EventID: eventID,
		Text:    req.text(),
	})
	if err != nil {
		if errors.Is(err, services.ErrNotifyMissingBody) {
			return jsonError(c, fiber.StatusBadRequest, "Nachricht fehlt")
		}
		configslog.Log.Error("Dashboard - Notify failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Nachricht konnte nicht verarbeitet werden")
	}

	return c.JSON(fiber.Map{
		"ok":         true,
		"scope":      report.Scope,
		"event_id":   report.EventID,
		"saved":      true,
		"recipients": report.Recipients,
		"mailed":     report.Mailed,
		"failed":     report.Failed,
	})
}

// MailStatus reports whether delivery is configured.
func (h *NotifyHandler) MailStatus(c *fiber.Ctx) error {
	status, err := h.notify.Status(c.UserContext())
	if err != nil {
		configslog.Log.Error("Dashboard - MailStatus failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Status nicht verfügbar")
	}
	return c.JSON(status)
}

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// Messages lists the latest broadcasts. limit defaults to 50 and is capped at 200.
func (h *NotifyHandler) Messages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultMessageLimit)
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}
	messages, err := h.notify.RecentMessages(c.UserContext(), limit)
	if err != nil {
		configslog.Log.Error("Dashboard - Messages failed", zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Nachrichten nicht verfügbar")
	}
	return c.JSON(fiber.Map{"messages": messages})
}
