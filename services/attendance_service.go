package services

import (
	"context"
	"errors"
	"fmt"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/pkg/datefmt"
	"laufmanager.de/repositories"

	"go.uber.org/zap"
)

// AttendanceServiceError is the error kind returned by AttendanceService.
type AttendanceServiceError string

func (e AttendanceServiceError) Error() string { return string(e) }

const (
	ErrAttendanceInvalidStatus AttendanceServiceError = "attendance status must be yes or no"
	ErrAttendanceEventNotFound AttendanceServiceError = "event not found"
	ErrAttendanceUpstream      AttendanceServiceError = "attendance data unavailable"
)

// BoardEntry is one upcoming run as a runner sees it.
type BoardEntry struct {
	Event     models.Event             `json:"event"`
	Label     string                   `json:"label"`
	Confirmed int                      `json:"confirmed"`
	Names     []string                 `json:"names"`
	MyStatus  *models.AttendanceStatus `json:"my_status"`
}

// RosterEntry is one upcoming run with its confirmed attendees, for admins.
type RosterEntry struct {
	Event     models.Event      `json:"event"`
	Label     string            `json:"label"`
	Attendees []models.Attendee `json:"attendees"`
}

// IAttendanceService records RSVPs and answers who is coming to which run.
type IAttendanceService interface {
	SetStatus(ctx context.Context, runnerID, eventID uint, status models.AttendanceStatus) error
	GetStatus(ctx context.Context, runnerID, eventID uint) (models.AttendanceStatus, bool, error)
	CountConfirmed(ctx context.Context, eventID uint) (int64, error)
	ListConfirmedNames(ctx context.Context, eventID uint) ([]string, error)
	StatusesForRunner(ctx context.Context, runnerID uint, eventIDs []uint) (map[uint]models.AttendanceStatus, error)
	ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	ConfirmedAttendees(ctx context.Context, eventIDs []uint) (map[uint][]models.Attendee, error)
	Board(ctx context.Context, runnerID uint) ([]BoardEntry, error)
	Roster(ctx context.Context) ([]RosterEntry, error)
	EventAttendees(ctx context.Context, eventID uint) ([]models.Attendee, error)
}

// AttendanceService implements IAttendanceService on top of the attendance and event stores.
type AttendanceService struct {
	attendance repositories.IAttendanceRepository
	events     repositories.IEventRepository
	clock      Clock
}

// NewAttendanceService returns an AttendanceService using clock for "today".
func NewAttendanceService(attendance repositories.IAttendanceRepository, events repositories.IEventRepository, clock Clock) IAttendanceService {
	return &AttendanceService{attendance: attendance, events: events, clock: clock}
}

// SetStatus records the runner's answer. Repeating the same answer changes
// nothing; the opposite answer flips the single row.
func (s *AttendanceService) SetStatus(ctx context.Context, runnerID, eventID uint, status models.AttendanceStatus) error {
	if status != models.AttendanceYes && status != models.AttendanceNo {
		return ErrAttendanceInvalidStatus
	}

	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrAttendanceEventNotFound
		}
		return fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}

	if err := s.attendance.Upsert(ctx, runnerID, eventID, status); err != nil {
		return fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	configslog.Log.Debug("Attendance recorded", zap.Uint("runner_id", runnerID), zap.Uint("event_id", eventID), zap.String("status", string(status)))
	return nil
}

func (s *AttendanceService) GetStatus(ctx context.Context, runnerID, eventID uint) (models.AttendanceStatus, bool, error) {
	row, err := s.attendance.Find(ctx, runnerID, eventID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	return row.Status, true, nil
}

func (s *AttendanceService) CountConfirmed(ctx context.Context, eventID uint) (int64, error) {
	return s.attendance.CountConfirmed(ctx, eventID)
}

// ListConfirmedNames returns the display names of everyone who said yes, in German collation order.
func (s *AttendanceService) ListConfirmedNames(ctx context.Context, eventID uint) ([]string, error) {
	names, err := s.attendance.ListConfirmedNames(ctx, eventID)
	if err != nil {
		return nil, err
	}
	datefmt.SortNames(names)
	return names, nil
}

func (s *AttendanceService) StatusesForRunner(ctx context.Context, runnerID uint, eventIDs []uint) (map[uint]models.AttendanceStatus, error) {
	rows, err := s.attendance.FindForRunner(ctx, runnerID, eventIDs)
	if err != nil {
		return nil, err
	}
	statuses := make(map[uint]models.AttendanceStatus, len(rows))
	for _, row := range rows {
		statuses[row.EventID] = row.Status
	}
	return statuses, nil
}

func (s *AttendanceService) ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	return s.attendance.CountConfirmedByEvents(ctx, eventIDs)
}

// ConfirmedAttendees groups the confirmed runners by event.
func (s *AttendanceService) ConfirmedAttendees(ctx context.Context, eventIDs []uint) (map[uint][]models.Attendee, error) {
	rows, err := s.attendance.ListConfirmedAttendees(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	grouped := make(map[uint][]models.Attendee, len(eventIDs))
	for _, a := range rows {
		grouped[a.EventID] = append(grouped[a.EventID], a)
	}
	return grouped, nil
}

// Board lists the upcoming runs with counts, names and the runner's own answer.
func (s *AttendanceService) Board(ctx context.Context, runnerID uint) ([]BoardEntry, error) {
	events, err := s.events.FindUpcoming(ctx, s.clock.Today(), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	ids := eventIDs(events)

	attendees, err := s.ConfirmedAttendees(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	mine, err := s.StatusesForRunner(ctx, runnerID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}

	board := make([]BoardEntry, 0, len(events))
	for i := range events {
		ev := events[i]
		names := make([]string, 0, len(attendees[ev.ID]))
		for _, a := range attendees[ev.ID] {
			names = append(names, a.DisplayName)
		}
		datefmt.SortNames(names)
		entry := BoardEntry{Event: ev, Label: EventLabel(&ev), Confirmed: len(names), Names: names}
		if st, ok := mine[ev.ID]; ok {
			entry.MyStatus = &st
		}
		board = append(board, entry)
	}
	return board, nil
}

// Roster lists the upcoming runs with their confirmed attendees.
func (s *AttendanceService) Roster(ctx context.Context) ([]RosterEntry, error) {
	events, err := s.events.FindUpcoming(ctx, s.clock.Today(), 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	attendees, err := s.ConfirmedAttendees(ctx, eventIDs(events))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}

	roster := make([]RosterEntry, 0, len(events))
	for i := range events {
		ev := events[i]
		list := attendees[ev.ID]
		if list == nil {
			list = []models.Attendee{}
		}
		roster = append(roster, RosterEntry{Event: ev, Label: EventLabel(&ev), Attendees: list})
	}
	return roster, nil
}

// EventAttendees returns the confirmed attendees of one event, ErrAttendanceEventNotFound if it does not exist.
func (s *AttendanceService) EventAttendees(ctx context.Context, eventID uint) ([]models.Attendee, error) {
	if _, err := s.events.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttendanceEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	rows, err := s.attendance.ListConfirmedAttendees(ctx, []uint{eventID})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAttendanceUpstream, err)
	}
	return rows, nil
}

func eventIDs(events []models.Event) []uint {
	ids := make([]uint, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}

var _ IAttendanceService = (*AttendanceService)(nil)
