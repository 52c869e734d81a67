package services

import (
	"time"

	"laufmanager.de/models"
)

// Clock supplies "now" and the club's time zone. Today is always the
// calendar date in that zone, never the UTC date.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// NewClock returns a Clock on the system time in loc.
func NewClock(loc *time.Location) Clock {
	return Clock{Now: time.Now, Location: loc}
}

func (c Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today returns the current calendar date in the club's zone.
func (c Clock) Today() models.Date {
	return models.DateOf(c.now().In(c.location()))
}
