package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/repositories"

	"go.uber.org/zap"
)

// EventServiceError is the error kind returned by EventService.
type EventServiceError string

func (e EventServiceError) Error() string { return string(e) }

const (
	ErrEventNotFound     EventServiceError = "event not found"
	ErrEventDateRequired EventServiceError = "event date is required"
	ErrEventInvalidInput EventServiceError = "invalid event input"
	ErrEventUpstream     EventServiceError = "event data unavailable"
)

// EventInput carries admin form values as text. Nil fields are left
// untouched on update; on create StartTime and Location fall back to the
// club defaults. An explicit empty StartTime makes the run all-day.
type EventInput struct {
	EventDate *string `json:"event_date"`
	StartTime *string `json:"start_time"`
	Location  *string `json:"location"`
	Notes     *string `json:"notes"`
	Title     *string `json:"title"`
}

// IEventService maintains the run schedule.
type IEventService interface {
	Create(ctx context.Context, in EventInput) (*models.Event, error)
	Update(ctx context.Context, id uint, in EventInput) (*models.Event, error)
	Duplicate(ctx context.Context, id uint, date string) (*models.Event, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*models.Event, error)
	ListAll(ctx context.Context) ([]models.Event, error)
	ListUpcoming(ctx context.Context) ([]models.Event, error)
}

// EventService implements IEventService.
type EventService struct {
	events repositories.IEventRepository
	clock  Clock
}

// NewEventService returns an EventService over events.
func NewEventService(events repositories.IEventRepository, clock Clock) IEventService {
	return &EventService{events: events, clock: clock}
}

func (s *EventService) Create(ctx context.Context, in EventInput) (*models.Event, error) {
	if in.EventDate == nil || strings.TrimSpace(*in.EventDate) == "" {
		return nil, ErrEventDateRequired
	}
	date, err := models.ParseDate(*in.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventInvalidInput, err)
	}

	event := &models.Event{EventDate: date}

	start := models.DefaultEventStart
	event.StartTime = &start
	if in.StartTime != nil {
		if event.StartTime, err = parseStart(*in.StartTime); err != nil {
			return nil, err
		}
	}

	event.Location = models.OptionalText(models.DefaultEventLocation)
	if in.Location != nil {
		event.Location = cleanText(*in.Location)
	}
	if in.Notes != nil {
		event.Notes = cleanText(*in.Notes)
	}
	if in.Title != nil {
		event.Title = cleanText(*in.Title)
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventUpstream, err)
	}
	configslog.Log.Info("Event created", zap.Uint("event_id", event.ID), zap.Stringer("date", event.EventDate))
	return event, nil
}

func (s *EventService) Update(ctx context.Context, id uint, in EventInput) (*models.Event, error) {
	data := map[string]interface{}{}
	if in.EventDate != nil {
		if strings.TrimSpace(*in.EventDate) == "" {
			return nil, ErrEventDateRequired
		}
		date, err := models.ParseDate(*in.EventDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEventInvalidInput, err)
		}
		data["event_date"] = date
	}
	if in.StartTime != nil {
		start, err := parseStart(*in.StartTime)
		if err != nil {
			return nil, err
		}
		if start == nil {
			data["start_time"] = nil
		} else {
			data["start_time"] = *start
		}
	}
	if in.Location != nil {
		data["location"] = column(cleanText(*in.Location))
	}
	if in.Notes != nil {
		data["notes"] = column(cleanText(*in.Notes))
	}
	if in.Title != nil {
		data["title"] = column(cleanText(*in.Title))
	}

	if len(data) > 0 {
		if err := s.events.Update(ctx, id, data); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrEventNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrEventUpstream, err)
		}
	}
	return s.Get(ctx, id)
}

// Duplicate copies time, place, notes and title of an event onto another date.
func (s *EventService) Duplicate(ctx context.Context, id uint, date string) (*models.Event, error) {
	if strings.TrimSpace(date) == "" {
		return nil, ErrEventDateRequired
	}
	target, err := models.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventInvalidInput, err)
	}
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	copied := &models.Event{
		EventDate: target,
		StartTime: src.StartTime,
		Location:  src.Location,
		Notes:     src.Notes,
		Title:     src.Title,
	}
	if err := s.events.Create(ctx, copied); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventUpstream, err)
	}
	configslog.Log.Info("Event duplicated", zap.Uint("from_id", id), zap.Uint("event_id", copied.ID), zap.Stringer("date", target))
	return copied, nil
}

// Delete removes the event and its attendance.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("%w: %v", ErrEventUpstream, err)
	}
	configslog.Log.Info("Event deleted", zap.Uint("event_id", id))
	return nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	event, err := s.events.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrEventUpstream, err)
	}
	return event, nil
}

func (s *EventService) ListAll(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventUpstream, err)
	}
	return events, nil
}

func (s *EventService) ListUpcoming(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.FindUpcoming(ctx, s.clock.Today(), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventUpstream, err)
	}
	return events, nil
}

// parseStart reads HH:MM[:SS]; blank means all-day.
func parseStart(s string) (*models.ClockTime, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	start, err := models.ParseClockTime(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEventInvalidInput, err)
	}
	return &start, nil
}

func cleanText(s string) *string {
	return models.OptionalText(strings.TrimSpace(s))
}

// column turns an optional text into an update value, nil writing NULL.
func column(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

var _ IEventService = (*EventService)(nil)
