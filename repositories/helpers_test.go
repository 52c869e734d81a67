package repositories

import (
	"context"
	"testing"

	"laufmanager.de/database"
	"laufmanager.de/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrationsInOrder(db))
	return db
}

func mustRunner(t *testing.T, db *gorm.DB, name, email string) *models.Runner {
	t.Helper()
	r := &models.Runner{DisplayName: name, Email: email}
	require.NoError(t, NewRunnerRepository(db).Create(context.Background(), r))
	return r
}

func mustEvent(t *testing.T, db *gorm.DB, date string, start string) *models.Event {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	e := &models.Event{EventDate: d}
	if start != "" {
		c, err := models.ParseClockTime(start)
		require.NoError(t, err)
		e.StartTime = &c
	}
	require.NoError(t, NewEventRepository(db).Create(context.Background(), e))
	return e
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
