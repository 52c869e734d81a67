package services

import (
	"context"

	"laufmanager.de/models"
	"laufmanager.de/pkg/mailer"
	"laufmanager.de/repositories"

	"github.com/stretchr/testify/mock"
)

type mockRunnerRepo struct{ mock.Mock }

func (m *mockRunnerRepo) Create(ctx context.Context, r *models.Runner) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockRunnerRepo) FindByID(ctx context.Context, id uint) (*models.Runner, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*models.Runner)
	return r, args.Error(1)
}

func (m *mockRunnerRepo) FindByAuthUser(ctx context.Context, sub string) (*models.Runner, error) {
	args := m.Called(ctx, sub)
	r, _ := args.Get(0).(*models.Runner)
	return r, args.Error(1)
}

func (m *mockRunnerRepo) FindByEmail(ctx context.Context, email string) (*models.Runner, error) {
	args := m.Called(ctx, email)
	r, _ := args.Get(0).(*models.Runner)
	return r, args.Error(1)
}

func (m *mockRunnerRepo) FindByICalToken(ctx context.Context, token string) (*models.Runner, error) {
	args := m.Called(ctx, token)
	r, _ := args.Get(0).(*models.Runner)
	return r, args.Error(1)
}

func (m *mockRunnerRepo) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	return m.Called(ctx, id, data).Error(0)
}

func (m *mockRunnerRepo) List(ctx context.Context, q string) ([]models.Runner, error) {
	args := m.Called(ctx, q)
	r, _ := args.Get(0).([]models.Runner)
	return r, args.Error(1)
}

func (m *mockRunnerRepo) ListEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).([]string)
	return r, args.Error(1)
}

func (m *mockRunnerRepo) CountWithEmail(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockEventRepo struct{ mock.Mock }

func (m *mockEventRepo) Create(ctx context.Context, e *models.Event) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockEventRepo) FindByID(ctx context.Context, id uint) (*models.Event, error) {
	args := m.Called(ctx, id)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	return m.Called(ctx, id, data).Error(0)
}

func (m *mockEventRepo) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEventRepo) FindAll(ctx context.Context) ([]models.Event, error) {
	args := m.Called(ctx)
	e, _ := args.Get(0).([]models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) FindUpcoming(ctx context.Context, from models.Date, limit int) ([]models.Event, error) {
	args := m.Called(ctx, from, limit)
	e, _ := args.Get(0).([]models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) FindNextUpcoming(ctx context.Context, from models.Date) (*models.Event, error) {
	args := m.Called(ctx, from)
	e, _ := args.Get(0).(*models.Event)
	return e, args.Error(1)
}

func (m *mockEventRepo) FindUpcomingByIDs(ctx context.Context, ids []uint, from models.Date) ([]models.Event, error) {
	args := m.Called(ctx, ids, from)
	e, _ := args.Get(0).([]models.Event)
	return e, args.Error(1)
}

type mockAttendanceRepo struct{ mock.Mock }

func (m *mockAttendanceRepo) Upsert(ctx context.Context, runnerID, eventID uint, status models.AttendanceStatus) error {
	return m.Called(ctx, runnerID, eventID, status).Error(0)
}

func (m *mockAttendanceRepo) Find(ctx context.Context, runnerID, eventID uint) (*models.Attendance, error) {
	args := m.Called(ctx, runnerID, eventID)
	a, _ := args.Get(0).(*models.Attendance)
	return a, args.Error(1)
}

func (m *mockAttendanceRepo) FindForRunner(ctx context.Context, runnerID uint, eventIDs []uint) ([]models.Attendance, error) {
	args := m.Called(ctx, runnerID, eventIDs)
	a, _ := args.Get(0).([]models.Attendance)
	return a, args.Error(1)
}

func (m *mockAttendanceRepo) ListConfirmedEventIDs(ctx context.Context, runnerID uint) ([]uint, error) {
	args := m.Called(ctx, runnerID)
	ids, _ := args.Get(0).([]uint)
	return ids, args.Error(1)
}

func (m *mockAttendanceRepo) CountConfirmed(ctx context.Context, eventID uint) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAttendanceRepo) CountConfirmedByEvents(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, eventIDs)
	c, _ := args.Get(0).(map[uint]int64)
	return c, args.Error(1)
}

func (m *mockAttendanceRepo) ListConfirmedNames(ctx context.Context, eventID uint) ([]string, error) {
	args := m.Called(ctx, eventID)
	n, _ := args.Get(0).([]string)
	return n, args.Error(1)
}

func (m *mockAttendanceRepo) ListConfirmedEmails(ctx context.Context, eventID uint) ([]string, error) {
	args := m.Called(ctx, eventID)
	e, _ := args.Get(0).([]string)
	return e, args.Error(1)
}

func (m *mockAttendanceRepo) ListConfirmedAttendees(ctx context.Context, eventIDs []uint) ([]models.Attendee, error) {
	args := m.Called(ctx, eventIDs)
	a, _ := args.Get(0).([]models.Attendee)
	return a, args.Error(1)
}

type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		msg.ID = 42
	}
	return args.Error(0)
}

func (m *mockMessageRepo) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	args := m.Called(ctx, limit)
	msgs, _ := args.Get(0).([]models.Message)
	return msgs, args.Error(1)
}

type mockSender struct{ mock.Mock }

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	return m.Called(ctx, msg).Error(0)
}

var (
	_ repositories.IRunnerRepository     = (*mockRunnerRepo)(nil)
	_ repositories.IEventRepository      = (*mockEventRepo)(nil)
	_ repositories.IAttendanceRepository = (*mockAttendanceRepo)(nil)
	_ repositories.IMessageRepository    = (*mockMessageRepo)(nil)
	_ mailer.Sender                      = (*mockSender)(nil)
)
