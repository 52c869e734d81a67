package services

import (
	"context"
	"testing"
	"time"

	"laufmanager.de/database"
	"laufmanager.de/models"
	"laufmanager.de/repositories"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixedNow is 10:00 in Kiel on 1 June 2025.
var fixedNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	db         *gorm.DB
	runners    repositories.IRunnerRepository
	events     repositories.IEventRepository
	attendance repositories.IAttendanceRepository
	messages   repositories.IMessageRepository
	clock      Clock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.RunMigrationsInOrder(db))

	return &testEnv{
		db:         db,
		runners:    repositories.NewRunnerRepository(db),
		events:     repositories.NewEventRepository(db),
		attendance: repositories.NewAttendanceRepository(db),
		messages:   repositories.NewMessageRepository(db),
		clock:      fixedClock(t, fixedNow),
	}
}

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	return loc
}

func fixedClock(t *testing.T, now time.Time) Clock {
	return Clock{Now: func() time.Time { return now }, Location: berlin(t)}
}

func (e *testEnv) runner(t *testing.T, name, email, token string) *models.Runner {
	t.Helper()
	r := &models.Runner{DisplayName: name, Email: email}
	if token != "" {
		r.ICalToken = &token
	}
	require.NoError(t, e.runners.Create(context.Background(), r))
	return r
}

func (e *testEnv) event(t *testing.T, date, start string, mutate ...func(*models.Event)) *models.Event {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	ev := &models.Event{EventDate: d}
	if start != "" {
		c, err := models.ParseClockTime(start)
		require.NoError(t, err)
		ev.StartTime = &c
	}
	for _, m := range mutate {
		m(ev)
	}
	require.NoError(t, e.events.Create(context.Background(), ev))
	return ev
}

func (e *testEnv) rsvp(t *testing.T, r *models.Runner, ev *models.Event, status models.AttendanceStatus) {
	t.Helper()
	require.NoError(t, e.attendance.Upsert(context.Background(), r.ID, ev.ID, status))
}

func feedOptions() FeedOptions {
	return FeedOptions{
		ProductID:    "-//Lauf Manager HAW Kiel//DE",
		CalendarName: "Lauf Manager – Zusagen (%s)",
		Filename:     "laufmanager.ics",
		UIDDomain:    "laufmanager",
	}
}

func ptr[T any](v T) *T { return &v }
