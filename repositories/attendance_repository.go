package repositories

import (
	"context"
	"errors"
	"time"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// IAttendanceRepository is the store contract for the RSVP ledger.
type IAttendanceRepository interface {
	Upsert(ctx context.Context, runnerID, eventID uint, status models.AttendanceStatus) error
	Find(ctx context.Context, runnerID, eventID uint) (*models.Attendance, error)
	FindForRunner(ctx context.Context, runnerID uint, eventIDs []uint) ([]models.Attendance, error)
	ListConfirmedEventIDs(ctx context.Context, runnerID uint) ([]uint, error)
	CountConfirmed(ctx context.Context, eventID uint) (int64, error)
	CountConfirmedByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	ListConfirmedNames(ctx context.Context, eventID uint) ([]string, error)
	ListConfirmedEmails(ctx context.Context, eventID uint) ([]string, error)
	ListConfirmedAttendees(ctx context.Context, eventIDs []uint) ([]models.Attendee, error)
}

// AttendanceRepository stores one RSVP per runner and event.
type AttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository returns an AttendanceRepository on db.
func NewAttendanceRepository(db *gorm.DB) IAttendanceRepository {
	return &AttendanceRepository{db: db}
}

func (r *AttendanceRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

// confirmed joins confirmed attendance rows with their runners.
func (r *AttendanceRepository) confirmed(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).Table("attendance").
		Joins("JOIN runners ON runners.id = attendance.runner_id").
		Where("attendance.status = ?", models.AttendanceYes)
}

// Upsert writes the single row for (runner, event). Concurrent calls resolve
// to the last write through the store's ON CONFLICT handling.
func (r *AttendanceRepository) Upsert(ctx context.Context, runnerID, eventID uint, status models.AttendanceStatus) error {
	if runnerID == 0 || eventID == 0 {
		return errors.New("invalid attendance key")
	}
	row := models.Attendance{
		RunnerID:  runnerID,
		EventID:   eventID,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}
	err := r.getDB(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "runner_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.Upsert failed",
			zap.Uint("runner_id", runnerID), zap.Uint("event_id", eventID), zap.Error(err))
		return err
	}
	return nil
}

func (r *AttendanceRepository) Find(ctx context.Context, runnerID, eventID uint) (*models.Attendance, error) {
	var row models.Attendance
	err := r.getDB(ctx).Where("runner_id = ? AND event_id = ?", runnerID, eventID).First(&row).Error
	if err != nil {
		err = notFound(err)
		if !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("AttendanceRepository.Find failed", zap.Uint("runner_id", runnerID), zap.Uint("event_id", eventID), zap.Error(err))
		}
		return nil, err
	}
	return &row, nil
}

// FindForRunner returns the runner's rows for the given events.
func (r *AttendanceRepository) FindForRunner(ctx context.Context, runnerID uint, eventIDs []uint) ([]models.Attendance, error) {
	rows := []models.Attendance{}
	if len(eventIDs) == 0 {
		return rows, nil
	}
	err := r.getDB(ctx).Where("runner_id = ? AND event_id IN ?", runnerID, eventIDs).Find(&rows).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.FindForRunner failed", zap.Uint("runner_id", runnerID), zap.Error(err))
		return nil, err
	}
	return rows, nil
}

// ListConfirmedEventIDs returns each event the runner said yes to, once.
func (r *AttendanceRepository) ListConfirmedEventIDs(ctx context.Context, runnerID uint) ([]uint, error) {
	var ids []uint
	err := r.getDB(ctx).Model(&models.Attendance{}).
		Where("runner_id = ? AND status = ?", runnerID, models.AttendanceYes).
		Distinct("event_id").
		Order("event_id ASC").
		Pluck("event_id", &ids).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.ListConfirmedEventIDs failed", zap.Uint("runner_id", runnerID), zap.Error(err))
		return nil, err
	}
	return ids, nil
}

func (r *AttendanceRepository) CountConfirmed(ctx context.Context, eventID uint) (int64, error) {
	var n int64
	err := r.getDB(ctx).Model(&models.Attendance{}).
		Where("event_id = ? AND status = ?", eventID, models.AttendanceYes).
		Count(&n).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.CountConfirmed failed", zap.Uint("event_id", eventID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// CountConfirmedByEvents counts yes rows per event. Events without any are absent from the map.
func (r *AttendanceRepository) CountConfirmedByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		EventID uint
		Total   int64
	}
	err := r.getDB(ctx).Model(&models.Attendance{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ? AND status = ?", eventIDs, models.AttendanceYes).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.CountConfirmedByEvents failed", zap.Error(err))
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Total
	}
	return counts, nil
}

func (r *AttendanceRepository) ListConfirmedNames(ctx context.Context, eventID uint) ([]string, error) {
	var names []string
	err := r.confirmed(ctx).
		Where("attendance.event_id = ?", eventID).
		Order("runners.display_name ASC").
		Pluck("runners.display_name", &names).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.ListConfirmedNames failed", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return names, nil
}

// ListConfirmedEmails returns the distinct non-empty emails of the event's confirmed runners.
func (r *AttendanceRepository) ListConfirmedEmails(ctx context.Context, eventID uint) ([]string, error) {
	var emails []string
	err := r.confirmed(ctx).
		Where("attendance.event_id = ?", eventID).
		Where("runners.email IS NOT NULL AND runners.email <> ''").
		Distinct("runners.email").
		Order("runners.email ASC").
		Pluck("runners.email", &emails).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.ListConfirmedEmails failed", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}
	return emails, nil
}

// ListConfirmedAttendees returns name and email per confirmed runner, ordered by event and name.
func (r *AttendanceRepository) ListConfirmedAttendees(ctx context.Context, eventIDs []uint) ([]models.Attendee, error) {
	attendees := []models.Attendee{}
	if len(eventIDs) == 0 {
		return attendees, nil
	}
	err := r.confirmed(ctx).
		Select("attendance.event_id AS event_id, runners.id AS runner_id, runners.display_name AS display_name, runners.email AS email").
		Where("attendance.event_id IN ?", eventIDs).
		Order("attendance.event_id ASC").
		Order("runners.display_name ASC").
		Scan(&attendees).Error
	if err != nil {
		configslog.Log.Error("AttendanceRepository.ListConfirmedAttendees failed", zap.Error(err))
		return nil, err
	}
	return attendees, nil
}

var _ IAttendanceRepository = (*AttendanceRepository)(nil)
