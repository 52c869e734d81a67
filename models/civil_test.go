package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_ParseAndArithmetic(t *testing.T) {
	d, err := ParseDate("2025-12-31")
	require.NoError(t, err)

	assert.Equal(t, "2026-01-01", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", Date{Year: 2024, Month: time.February, Day: 29}.AddDays(1).String())
	assert.True(t, Date{Year: 2025, Month: 6, Day: 9}.Before(Date{Year: 2025, Month: 6, Day: 10}))
	assert.Equal(t, 0, d.Compare(Date{Year: 2025, Month: 12, Day: 31}))

	_, err = ParseDate("10.06.2025")
	assert.Error(t, err)
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-10", d.String())

	require.NoError(t, d.Scan([]byte("2025-06-11T00:00:00Z")))
	assert.Equal(t, "2025-06-11", d.String())

	assert.Error(t, d.Scan(42))
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2025-06-10"}`), &payload))
	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-06-10"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"date":"tomorrow"}`), &payload))
}

func TestClockTime(t *testing.T) {
	c, err := ParseClockTime("16:15")
	require.NoError(t, err)
	assert.Equal(t, "16:15:00", c.String())
	assert.Equal(t, "16:15", c.Short())

	var scanned ClockTime
	require.NoError(t, scanned.Scan("07:05:30.000000"))
	assert.Equal(t, ClockTime{Hour: 7, Minute: 5, Second: 30}, scanned)
	assert.Equal(t, 1, c.Compare(scanned))

	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	start := c.On(Date{Year: 2025, Month: 6, Day: 10}, loc)
	assert.Equal(t, "2025-06-10T16:15:00+02:00", start.Format(time.RFC3339))

	var payload struct {
		Start *ClockTime `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":null}`), &payload))
	assert.Nil(t, payload.Start)
	require.NoError(t, json.Unmarshal([]byte(`{"start":"08:30"}`), &payload))
	assert.Equal(t, "08:30:00", payload.Start.String())
}

func TestClockTime_StoredAsTimeOfDay(t *testing.T) {
	c := ClockTime{Hour: 16, Minute: 15}
	v, err := c.Value()
	require.NoError(t, err)
	assert.Equal(t, "16:15:00", v)

	var scanned ClockTime
	require.NoError(t, scanned.Scan([]byte("16:15:00")))
	assert.Equal(t, c, scanned)

	require.NoError(t, scanned.Scan(time.Date(0, 1, 1, 9, 30, 5, 0, time.UTC)))
	assert.Equal(t, ClockTime{Hour: 9, Minute: 30, Second: 5}, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestClockTime_FloatingIgnoresDaylightSaving(t *testing.T) {
	// Europe/Berlin skips 02:00 to 03:00 on this day
	day := Date{Year: 2025, Month: 3, Day: 30}

	start := ClockTime{Hour: 2, Minute: 30}.Floating(day)
	assert.Equal(t, "20250330T023000", start.Format("20060102T150405"))

	start = ClockTime{Hour: 1, Minute: 30}.Floating(day)
	assert.Equal(t, "20250330T023000", start.Add(time.Hour).Format("20060102T150405"))
}

func TestParseAttendanceStatus(t *testing.T) {
	s, ok := ParseAttendanceStatus(" YES ")
	assert.True(t, ok)
	assert.Equal(t, AttendanceYes, s)

	_, ok = ParseAttendanceStatus("maybe")
	assert.False(t, ok)
}

func TestDisplayNameFromEmail(t *testing.T) {
	assert.Equal(t, "anna.lauf", DisplayNameFromEmail("anna.lauf@haw-kiel.de"))
	assert.Equal(t, "Runner", (&Runner{}).Name())
}
