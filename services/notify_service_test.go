package services

import (
	"context"
	"errors"
	"testing"

	"laufmanager.de/models"
	"laufmanager.de/pkg/mailer"
	"laufmanager.de/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notifyFixture struct {
	runners    *mockRunnerRepo
	events     *mockEventRepo
	attendance *mockAttendanceRepo
	messages   *mockMessageRepo
	sender     *mockSender
}

func newNotifyFixture() *notifyFixture {
	return &notifyFixture{
		runners:    new(mockRunnerRepo),
		events:     new(mockEventRepo),
		attendance: new(mockAttendanceRepo),
		messages:   new(mockMessageRepo),
		sender:     new(mockSender),
	}
}

func (f *notifyFixture) service(t *testing.T, enabled bool) INotifyService {
	return NewNotifyService(f.runners, f.events, f.attendance, f.messages, f.sender, fixedClock(t, fixedNow), NotifyOptions{
		Enabled:     enabled,
		From:        "Laufgruppe <lauf@haw-kiel.de>",
		ReplyTo:     "coach@haw-kiel.de",
		Subject:     "Laufgruppe – Info",
		Concurrency: 2,
	})
}

func (f *notifyFixture) assertAll(t *testing.T) {
	f.runners.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.attendance.AssertExpectations(t)
	f.messages.AssertExpectations(t)
	f.sender.AssertExpectations(t)
}

func TestNotifyService_AllFiltersEmptyEmails(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.Scope == models.ScopeAll && m.Body == "Training abgesagt" && m.EventID == nil
	})).Return(nil)
	f.runners.On("ListEmails", mock.Anything).Return([]string{"a@x", "b@x", ""}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("provider down"))

	report, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Scope: "all", Text: "Training abgesagt"})
	require.NoError(t, err)
	assert.Equal(t, models.ScopeAll, report.Scope)
	assert.Equal(t, 2, report.Recipients)
	assert.Equal(t, 0, report.Mailed)
	assert.Equal(t, 2, report.Failed)
	assert.EqualValues(t, 42, report.MessageID)
	f.sender.AssertNumberOfCalls(t, "Send", 2)
	f.assertAll(t)
}

func TestNotifyService_PartialFailureStillCounts(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.runners.On("ListEmails", mock.Anything).Return([]string{"a@x", "b@x", "c@x", "d@x", "e@x"}, nil)
	failing := func(m mailer.Message) bool { return m.To == "b@x" || m.To == "d@x" }
	f.sender.On("Send", mock.Anything, mock.MatchedBy(failing)).Return(&mailer.ProviderError{Status: 422})
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(m mailer.Message) bool {
		return !failing(m) && m.From == "Laufgruppe <lauf@haw-kiel.de>" && m.ReplyTo == "coach@haw-kiel.de" && m.Text == "Heute 17 Uhr"
	})).Return(nil)

	report, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Text: "  Heute 17 Uhr \n"})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Recipients)
	assert.Equal(t, 3, report.Mailed)
	assert.Equal(t, 2, report.Failed)
	f.assertAll(t)
}

func TestNotifyService_DeduplicatesRecipients(t *testing.T) {
	f := newNotifyFixture()
	eventID := uint(7)
	f.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Message) bool {
		return m.Scope == models.ScopeAttendees && m.EventID != nil && *m.EventID == 7
	})).Return(nil)
	f.attendance.On("ListConfirmedEmails", mock.Anything, uint(7)).Return([]string{"a@x", "A@X ", "b@x", "a@x"}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	report, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{EventID: &eventID, Text: "Treffpunkt geändert"})
	require.NoError(t, err)
	assert.Equal(t, models.ScopeAttendees, report.Scope)
	require.NotNil(t, report.EventID)
	assert.EqualValues(t, 7, *report.EventID)
	assert.Equal(t, 2, report.Recipients)
	assert.Equal(t, 2, report.Mailed)
	f.assertAll(t)
}

func TestNotifyService_AttendeesWithoutUpcomingEvent(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.events.On("FindNextUpcoming", mock.Anything, models.Date{Year: 2025, Month: 6, Day: 1}).Return(nil, repositories.ErrNotFound)

	report, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Scope: "Teilnehmer", Text: "Hallo"})
	require.NoError(t, err)
	assert.Equal(t, models.ScopeAttendees, report.Scope)
	assert.Nil(t, report.EventID)
	assert.Zero(t, report.Recipients)
	assert.Zero(t, report.Mailed)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	f.assertAll(t)
}

func TestNotifyService_AttendeesOfSoonestEvent(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.MatchedBy(func(m *models.Message) bool { return m.EventID == nil })).Return(nil)
	f.events.On("FindNextUpcoming", mock.Anything, mock.Anything).Return(&models.Event{BaseModel: models.BaseModel{ID: 3}}, nil)
	f.attendance.On("ListConfirmedEmails", mock.Anything, uint(3)).Return([]string{"a@x"}, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	report, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Scope: "attendees", Text: "Bis gleich"})
	require.NoError(t, err)
	require.NotNil(t, report.EventID)
	assert.EqualValues(t, 3, *report.EventID)
	assert.Equal(t, 1, report.Mailed)
	f.assertAll(t)
}

func TestNotifyService_EmptyTextFailsBeforeAnything(t *testing.T) {
	f := newNotifyFixture()
	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Scope: "all", Text: text})
		assert.ErrorIs(t, err, ErrNotifyMissingBody)
	}
	f.messages.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.runners.AssertNotCalled(t, "ListEmails", mock.Anything)
}

func TestNotifyService_PersistenceFailureAborts(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Text: "Hallo"})
	assert.ErrorIs(t, err, ErrNotifyPersistence)
	f.runners.AssertNotCalled(t, "ListEmails", mock.Anything)
}

func TestNotifyService_RecordsWithoutMailIntegration(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.runners.On("ListEmails", mock.Anything).Return([]string{"a@x", "b@x"}, nil)

	report, err := f.service(t, false).Dispatch(context.Background(), DispatchRequest{Text: "Hallo"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Recipients)
	assert.Zero(t, report.Mailed)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestNotifyService_RecipientLookupFailure(t *testing.T) {
	f := newNotifyFixture()
	f.messages.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.runners.On("ListEmails", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := f.service(t, true).Dispatch(context.Background(), DispatchRequest{Text: "Hallo"})
	assert.ErrorIs(t, err, ErrNotifyRecipients)
	f.messages.AssertNumberOfCalls(t, "Create", 1)
}

func TestNotifyService_Status(t *testing.T) {
	f := newNotifyFixture()
	f.runners.On("CountWithEmail", mock.Anything).Return(int64(12), nil)

	st, err := f.service(t, true).Status(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Enabled)
	assert.Equal(t, "coach@haw-kiel.de", st.ReplyTo)
	assert.EqualValues(t, 12, st.AllRecipients)
}

func TestNormalizeAudience(t *testing.T) {
	seven := uint(7)
	zero := uint(0)
	cases := []struct {
		name     string
		scope    string
		eventID  *uint
		want     models.MessageScope
		wantID   *uint
		fallback bool
	}{
		{"empty means all", "", nil, models.ScopeAll, nil, false},
		{"event id implies attendees", "", &seven, models.ScopeAttendees, &seven, false},
		{"zero id is no id", "", &zero, models.ScopeAll, nil, false},
		{"synonym attendees", " Participants ", nil, models.ScopeAttendees, nil, false},
		{"german synonym", "TEILNEHMER", &seven, models.ScopeAttendees, &seven, false},
		{"all drops event id", "alle", &seven, models.ScopeAll, nil, false},
		{"broadcast", "broadcast", nil, models.ScopeAll, nil, false},
		{"unknown with event id", "vip", &seven, models.ScopeAttendees, &seven, false},
		{"unknown widens to all", "vip", nil, models.ScopeAll, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAudience(tc.scope, tc.eventID)
			assert.Equal(t, tc.want, got.Scope)
			assert.Equal(t, tc.wantID, got.EventID)
			assert.Equal(t, tc.fallback, got.Fallback)
		})
	}
}

func TestUniqueEmails(t *testing.T) {
	assert.Equal(t, []string{"Anna@x", "b@x"}, uniqueEmails([]string{" Anna@x", "", "anna@X", "b@x", "  "}))
	assert.Empty(t, uniqueEmails(nil))
}
