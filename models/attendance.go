package models

import (
	"strings"
	"time"
)

// AttendanceStatus is a runner's answer for one event. There is no unset state once a row exists.
type AttendanceStatus string

const (
	AttendanceYes AttendanceStatus = "yes"
	AttendanceNo  AttendanceStatus = "no"
)

// ParseAttendanceStatus accepts yes/no in any case.
func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	switch AttendanceStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AttendanceYes:
		return AttendanceYes, true
	case AttendanceNo:
		return AttendanceNo, true
	}
	return "", false
}

// Attendance is keyed by (runner, event); writes go through an upsert.
type Attendance struct {
	RunnerID  uint             `gorm:"primaryKey;autoIncrement:false" json:"runner_id"`
	EventID   uint             `gorm:"primaryKey;autoIncrement:false;index" json:"event_id"`
	Status    AttendanceStatus `gorm:"type:varchar(8);not null;index" json:"status"`
	UpdatedAt time.Time        `json:"updated_at"`

	Runner *Runner `gorm:"foreignKey:RunnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Event  *Event  `gorm:"foreignKey:EventID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (Attendance) TableName() string { return "attendance" }

// Attendee is a confirmed runner as listed on rosters.
type Attendee struct {
	EventID     uint   `json:"event_id"`
	RunnerID    uint   `json:"runner_id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}
