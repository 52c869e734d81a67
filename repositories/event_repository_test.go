package repositories

import (
	"context"
	"testing"

	"laufmanager.de/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Upcoming(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	past := mustEvent(t, db, "2025-06-03", "16:15")
	later := mustEvent(t, db, "2025-06-17", "16:15")
	today := mustEvent(t, db, "2025-06-10", "16:15")

	upcoming, err := repo.FindUpcoming(ctx, date(t, "2025-06-10"), 0)
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
	assert.Equal(t, today.ID, upcoming[0].ID)
	assert.Equal(t, later.ID, upcoming[1].ID)
	assert.Equal(t, "16:15:00", upcoming[0].StartTime.String())

	next, err := repo.FindNextUpcoming(ctx, date(t, "2025-06-11"))
	require.NoError(t, err)
	assert.Equal(t, later.ID, next.ID)

	_, err = repo.FindNextUpcoming(ctx, date(t, "2025-07-01"))
	assert.ErrorIs(t, err, ErrNotFound)

	byIDs, err := repo.FindUpcomingByIDs(ctx, []uint{past.ID, later.ID}, date(t, "2025-06-10"))
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, later.ID, byIDs[0].ID)

	none, err := repo.FindUpcomingByIDs(ctx, nil, date(t, "2025-06-10"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestEventRepository_StartTimeRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()

	timed := mustEvent(t, db, "2025-06-10", "16:15")
	allDay := mustEvent(t, db, "2025-06-12", "")

	got, err := repo.FindByID(ctx, timed.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartTime)
	assert.Equal(t, models.ClockTime{Hour: 16, Minute: 15}, *got.StartTime)
	assert.Equal(t, date(t, "2025-06-10"), got.EventDate)

	var stored string
	require.NoError(t, db.Raw("SELECT start_time FROM events WHERE id = ?", timed.ID).Scan(&stored).Error)
	assert.Equal(t, "16:15:00", stored)

	got, err = repo.FindByID(ctx, allDay.ID)
	require.NoError(t, err)
	assert.Nil(t, got.StartTime)
	assert.Equal(t, date(t, "2025-06-12"), got.EventDate)
}

func TestEventRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)
	ctx := context.Background()
	e := mustEvent(t, db, "2025-06-10", "16:15")
	r := mustRunner(t, db, "Anna", "anna@haw-kiel.de")
	require.NoError(t, NewAttendanceRepository(db).Upsert(ctx, r.ID, e.ID, models.AttendanceYes))

	require.NoError(t, repo.Update(ctx, e.ID, map[string]interface{}{
		"start_time": nil,
		"title":      "Bahnlauf",
	}))
	got, err := repo.FindByID(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, got.AllDay())
	assert.Equal(t, "Bahnlauf", got.TitleText())

	require.NoError(t, repo.Delete(ctx, e.ID))
	_, err = repo.FindByID(ctx, e.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var left int64
	require.NoError(t, db.Model(&models.Attendance{}).Count(&left).Error)
	assert.Zero(t, left)

	assert.ErrorIs(t, repo.Delete(ctx, e.ID), ErrNotFound)
}
