package models

import (
	"strings"

	"github.com/google/uuid"
)

// Runner is a registered club member. AuthUser is the subject of the access
// token and stays empty for runners seeded before their first login.
type Runner struct {
	BaseModel
	AuthUser    *string `gorm:"column:auth_user;type:varchar(64);uniqueIndex" json:"-"`
	DisplayName string  `gorm:"type:varchar(120);not null" json:"display_name"`
	Email       string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	IsAdmin     bool    `gorm:"not null;default:false" json:"is_admin"`
	ICalToken   *string `gorm:"column:ical_token;type:varchar(64);uniqueIndex" json:"-"`
}

// Name returns the display name or the generic fallback.
func (r *Runner) Name() string {
	if n := strings.TrimSpace(r.DisplayName); n != "" {
		return n
	}
	return "Runner"
}

// HasFeed reports whether a calendar token has been provisioned.
func (r *Runner) HasFeed() bool {
	return r.ICalToken != nil && *r.ICalToken != ""
}

// DisplayNameFromEmail derives the initial display name from the mailbox part.
func DisplayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// NewFeedToken mints an opaque calendar feed token.
func NewFeedToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
