package models

import "strings"

const (
	DefaultEventLocation = "Haupteingang Mehrzweckgebäude, FH Kiel"
)

// DefaultEventStart is the usual start of a club run.
var DefaultEventStart = ClockTime{Hour: 16, Minute: 15}

// Event is one scheduled run. A nil StartTime makes it an all-day event.
type Event struct {
	BaseModel
	EventDate Date       `gorm:"not null;index" json:"event_date"`
	StartTime *ClockTime `json:"start_time"`
	Location  *string    `gorm:"type:text" json:"location"`
	Notes     *string    `gorm:"type:text" json:"notes"`
	Title     *string    `gorm:"type:text" json:"title"`
}

func (e *Event) AllDay() bool { return e.StartTime == nil }

// LocationText, NotesText and TitleText return trimmed text or "".
func (e *Event) LocationText() string { return strings.TrimSpace(Text(e.Location)) }
func (e *Event) NotesText() string    { return strings.TrimSpace(Text(e.Notes)) }
func (e *Event) TitleText() string    { return strings.TrimSpace(Text(e.Title)) }
