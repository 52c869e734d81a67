package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"laufmanager.de/configs"
	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/pkg/icalendar"
	"laufmanager.de/repositories"

	"go.uber.org/zap"
)

// FeedServiceError is the error kind returned by BuildFeed.
type FeedServiceError string

func (e FeedServiceError) Error() string { return string(e) }

const (
	ErrFeedMissingToken FeedServiceError = "feed token missing"
	ErrFeedNotFound     FeedServiceError = "feed token unknown"
	ErrFeedUpstream     FeedServiceError = "feed data unavailable"
)

// timedDuration is the length given to every timed run; events carry no duration.
const timedDuration = time.Hour

// FeedOptions controls the calendar header and entry identifiers.
type FeedOptions struct {
	ProductID    string
	CalendarName string // every %s is replaced by the display name
	Filename     string
	UIDDomain    string
}

// FeedOptionsFrom copies the feed section of the app config.
func FeedOptionsFrom(cfg configs.FeedConfig) FeedOptions {
	return FeedOptions{
		ProductID:    cfg.ProductID,
		CalendarName: cfg.CalendarName,
		Filename:     cfg.Filename,
		UIDDomain:    cfg.UIDDomain,
	}
}

// Feed is a rendered calendar ready to be served.
type Feed struct {
	Body     []byte
	Filename string
	RunnerID uint
	Entries  int
}

// IFeedService renders a runner's subscription calendar.
type IFeedService interface {
	BuildFeed(ctx context.Context, token string) (*Feed, error)
}

// FeedService builds feeds from the runner, event and attendance stores.
type FeedService struct {
	runners    repositories.IRunnerRepository
	events     repositories.IEventRepository
	attendance repositories.IAttendanceRepository
	clock      Clock
	opts       FeedOptions
}

// NewFeedService returns a FeedService reading through the given repositories.
func NewFeedService(
	runners repositories.IRunnerRepository,
	events repositories.IEventRepository,
	attendance repositories.IAttendanceRepository,
	clock Clock,
	opts FeedOptions,
) IFeedService {
	return &FeedService{runners: runners, events: events, attendance: attendance, clock: clock, opts: opts}
}

// BuildFeed renders the confirmed, not yet past runs of the runner owning token.
// Either a complete document or an error is returned, never a partial body.
func (s *FeedService) BuildFeed(ctx context.Context, token string) (*Feed, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrFeedMissingToken
	}

	runner, err := s.runners.FindByICalToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrFeedNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFeedUpstream, err)
	}

	eventIDs, err := s.attendance.ListConfirmedEventIDs(ctx, runner.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFeedUpstream, err)
	}

	var events []models.Event
	if len(eventIDs) > 0 {
		events, err = s.events.FindUpcomingByIDs(ctx, eventIDs, s.clock.Today())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFeedUpstream, err)
		}
	}
	sortForFeed(events)

	doc := icalendar.NewDocument(s.opts.ProductID, calendarName(s.opts.CalendarName, runner.Name()))
	stamp := s.clock.now().UTC()
	seen := make(map[uint]struct{}, len(events))
	for i := range events {
		ev := &events[i]
		if _, dup := seen[ev.ID]; dup {
			continue
		}
		seen[ev.ID] = struct{}{}
		doc.Add(s.entry(runner, ev, stamp))
	}

	body, err := doc.Bytes()
	if err != nil {
		configslog.Log.Error("FeedService.BuildFeed: serialisation failed", zap.Uint("runner_id", runner.ID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrFeedUpstream, err)
	}

	return &Feed{Body: body, Filename: s.opts.Filename, RunnerID: runner.ID, Entries: doc.Len()}, nil
}

func (s *FeedService) entry(runner *models.Runner, ev *models.Event, stamp time.Time) icalendar.Entry {
	e := icalendar.Entry{
		UID:         fmt.Sprintf("runner-%d-event-%d@%s", runner.ID, ev.ID, s.opts.UIDDomain),
		Stamp:       stamp,
		Summary:     EventLabel(ev),
		Location:    models.Text(ev.Location),
		Description: models.Text(ev.Notes),
	}
	// floating times: wall-clock arithmetic in UTC, the club zone only decides "today"
	if ev.AllDay() {
		e.AllDay = true
		e.Start = ev.EventDate.In(time.UTC)
		e.End = ev.EventDate.AddDays(1).In(time.UTC)
	} else {
		e.Start = ev.StartTime.Floating(ev.EventDate)
		e.End = e.Start.Add(timedDuration)
	}
	return e
}

// calendarName fills every %s in pattern with name. A pattern without one is used as is.
func calendarName(pattern, name string) string {
	return strings.ReplaceAll(pattern, "%s", name)
}

// sortForFeed orders by date, all-day before timed, start time, then id, so
// the document is byte-stable whatever order the store returned.
func sortForFeed(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := &events[i], &events[j]
		if c := a.EventDate.Compare(b.EventDate); c != 0 {
			return c < 0
		}
		if a.AllDay() != b.AllDay() {
			return a.AllDay()
		}
		if !a.AllDay() {
			if c := a.StartTime.Compare(*b.StartTime); c != 0 {
				return c < 0
			}
		}
		return a.ID < b.ID
	})
}

var _ IFeedService = (*FeedService)(nil)
