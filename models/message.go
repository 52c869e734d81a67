package models

import "time"

// MessageScope addresses a broadcast: everyone, or confirmed attendees of one event.
type MessageScope string

const (
	ScopeAll       MessageScope = "all"
	ScopeAttendees MessageScope = "attendees"
)

// Message is the append-only audit record of a broadcast.
type Message struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	Scope     MessageScope `gorm:"type:varchar(16);not null" json:"scope"`
	Body      string       `gorm:"type:text;not null" json:"body"`
	EventID   *uint        `gorm:"index" json:"event_id"`
	CreatedAt time.Time    `json:"created_at"`
}
