package repositories

import (
	"context"
	"errors"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEventRepository is the store contract for scheduled runs.
type IEventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id uint) (*models.Event, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
	FindAll(ctx context.Context) ([]models.Event, error)
	FindUpcoming(ctx context.Context, from models.Date, limit int) ([]models.Event, error)
	FindNextUpcoming(ctx context.Context, from models.Date) (*models.Event, error)
	FindUpcomingByIDs(ctx context.Context, ids []uint, from models.Date) ([]models.Event, error)
}

// EventRepository stores scheduled runs.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository returns an EventRepository on db.
func NewEventRepository(db *gorm.DB) IEventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) getDB(ctx context.Context) *gorm.DB {
	return dbFrom(ctx, r.db)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.getDB(ctx).Create(event).Error; err != nil {
		configslog.Log.Error("EventRepository.Create failed", zap.Stringer("event_date", event.EventDate), zap.Error(err))
		return err
	}
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.getDB(ctx).First(&event, id).Error; err != nil {
		err = notFound(err)
		if !errors.Is(err, ErrNotFound) {
			configslog.Log.Error("EventRepository.FindByID failed", zap.Uint("event_id", id), zap.Error(err))
		}
		return nil, err
	}
	return &event, nil
}

// Update writes the given columns. A map is used so NULLs can be written.
func (r *EventRepository) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	result := r.getDB(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		configslog.Log.Error("EventRepository.Update failed", zap.Uint("event_id", id), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the event together with its attendance rows.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Transaction(func(tx *gorm.DB) error {
		// sqlite does not enforce the cascade unless foreign keys are switched on
		if err := tx.Where("event_id = ?", id).Delete(&models.Attendance{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			configslog.Log.Error("EventRepository.Delete failed", zap.Uint("event_id", id), zap.Error(result.Error))
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *EventRepository) FindAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.ordered(r.getDB(ctx)).Find(&events).Error; err != nil {
		configslog.Log.Error("EventRepository.FindAll failed", zap.Error(err))
		return nil, err
	}
	return events, nil
}

// FindUpcoming lists events on or after from. limit <= 0 means no limit.
func (r *EventRepository) FindUpcoming(ctx context.Context, from models.Date, limit int) ([]models.Event, error) {
	var events []models.Event
	q := r.ordered(r.getDB(ctx).Where("event_date >= ?", from))
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		configslog.Log.Error("EventRepository.FindUpcoming failed", zap.Stringer("from", from), zap.Error(err))
		return nil, err
	}
	return events, nil
}

// FindNextUpcoming returns the soonest event on or after from, ErrNotFound if there is none.
func (r *EventRepository) FindNextUpcoming(ctx context.Context, from models.Date) (*models.Event, error) {
	events, err := r.FindUpcoming(ctx, from, 1)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNotFound
	}
	return &events[0], nil
}

func (r *EventRepository) FindUpcomingByIDs(ctx context.Context, ids []uint, from models.Date) ([]models.Event, error) {
	if len(ids) == 0 {
		return []models.Event{}, nil
	}
	var events []models.Event
	err := r.ordered(r.getDB(ctx).Where("id IN ? AND event_date >= ?", ids, from)).Find(&events).Error
	if err != nil {
		configslog.Log.Error("EventRepository.FindUpcomingByIDs failed", zap.Int("ids", len(ids)), zap.Error(err))
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) ordered(q *gorm.DB) *gorm.DB {
	return q.Order("event_date ASC").Order("start_time ASC").Order("id ASC")
}

var _ IEventRepository = (*EventRepository)(nil)
