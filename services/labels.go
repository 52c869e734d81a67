package services

import (
	"time"

	"laufmanager.de/models"
	"laufmanager.de/pkg/datefmt"
)

// EventLabel is the title shown for ev, generated from its date and start when unset.
// Generated labels read the stored wall clock; no zone is applied.
func EventLabel(ev *models.Event) string {
	if ev.TitleText() != "" {
		return models.Text(ev.Title)
	}
	if ev.AllDay() {
		return datefmt.RunLabel(ev.EventDate.In(time.UTC), true)
	}
	return datefmt.RunLabel(ev.StartTime.Floating(ev.EventDate), false)
}
