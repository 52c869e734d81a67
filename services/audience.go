package services

import (
	"strings"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
)

// Audience is the normalised addressing of a broadcast. EventID is only set
// for attendee scope; nil there means "the soonest upcoming event".
type Audience struct {
	Scope   models.MessageScope
	EventID *uint
	// Fallback is set when an unrecognised scope token was widened to all.
	Fallback bool
}

var scopeAliases = map[string]models.MessageScope{
	"attendees":    models.ScopeAttendees,
	"attendee":     models.ScopeAttendees,
	"teilnehmer":   models.ScopeAttendees,
	"participants": models.ScopeAttendees,
	"all":          models.ScopeAll,
	"alle":         models.ScopeAll,
	"everyone":     models.ScopeAll,
	"broadcast":    models.ScopeAll,
}

// NormalizeAudience is the one place loose client input becomes a scope.
// Older clients send synonyms or only an event id, so both are accepted.
// An unknown token without an event id widens to everyone; that fallback is
// logged and flagged on the result.
func NormalizeAudience(rawScope string, eventID *uint) Audience {
	if eventID != nil && *eventID == 0 {
		eventID = nil
	}
	token := strings.ToLower(strings.TrimSpace(rawScope))

	if scope, ok := scopeAliases[token]; ok {
		if scope == models.ScopeAll {
			return Audience{Scope: models.ScopeAll}
		}
		return Audience{Scope: models.ScopeAttendees, EventID: eventID}
	}
	if eventID != nil {
		return Audience{Scope: models.ScopeAttendees, EventID: eventID}
	}
	if token != "" {
		configslog.Log.Warn("Unrecognised broadcast scope, sending to everyone", zap.String("scope", rawScope))
		return Audience{Scope: models.ScopeAll, Fallback: true}
	}
	return Audience{Scope: models.ScopeAll}
}
