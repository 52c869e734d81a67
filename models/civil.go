package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04:05"
)

// Date is a calendar day without a time zone, stored in a DATE column.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate reads a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays normalises across month and year boundaries.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func (Date) GormDataType() string { return "date" }

func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.parseStored(v)
	case []byte:
		return d.parseStored(string(v))
	case nil:
		*d = Date{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Date", src)
}

func (d *Date) parseStored(s string) error {
	// drivers may hand back a full timestamp for DATE columns
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ClockTime is a wall-clock time of day, stored as TIME (TEXT on sqlite).
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// ParseClockTime accepts HH:MM and HH:MM:SS.
func ParseClockTime(s string) (ClockTime, error) {
	s = strings.TrimSpace(s)
	layout := clockLayout
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}

// Short drops the seconds, e.g. "16:15".
func (c ClockTime) Short() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On combines the day and the clock time in loc.
func (c ClockTime) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, c.Second, 0, loc)
}

// Floating is the wall-clock value of d at c, carried in UTC so that no
// zone shifts or skips it. Only its digits are meant to be read.
func (c ClockTime) Floating(d Date) time.Time {
	return c.On(d, time.UTC)
}

func (c ClockTime) Compare(o ClockTime) int {
	return cmpInt(c.Hour*3600+c.Minute*60+c.Second, o.Hour*3600+o.Minute*60+o.Second)
}

// Storage goes through datatypes.Time, which maps to TIME on postgres and
// TEXT on sqlite. A plain "time" data type would become a timestamp column.
func (ClockTime) GormDataType() string { return "time" }

func (ClockTime) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return datatypes.Time(0).GormDBDataType(db, field)
}

func (c ClockTime) stored() datatypes.Time {
	return datatypes.NewTime(c.Hour, c.Minute, c.Second, 0)
}

func (c ClockTime) Value() (driver.Value, error) {
	return c.stored().Value()
}

func (c *ClockTime) Scan(src any) error {
	var t datatypes.Time
	if err := t.Scan(src); err != nil {
		return fmt.Errorf("cannot scan %T into ClockTime: %w", src, err)
	}
	d := time.Duration(t)
	*c = ClockTime{
		Hour:   int(d / time.Hour),
		Minute: int(d % time.Hour / time.Minute),
		Second: int(d % time.Minute / time.Second),
	}
	return nil
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
