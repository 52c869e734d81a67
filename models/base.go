package models

import "time"

// BaseModel carries the surrogate key and timestamps shared by the reference tables.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Text dereferences an optional text column, treating nil as empty.
func Text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OptionalText returns nil for blank input so the column stays NULL.
func OptionalText(s string) *string {
	if len(s) == 0 {
		return nil
	}
	return &s
}
