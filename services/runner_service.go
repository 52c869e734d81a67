package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/repositories"

	"go.uber.org/zap"
)

// RunnerServiceError is the error kind returned by RunnerService.
type RunnerServiceError string

func (e RunnerServiceError) Error() string { return string(e) }

const (
	ErrRunnerNotFound        RunnerServiceError = "runner not found"
	ErrRunnerInvalidName     RunnerServiceError = "display name must be 1 to 120 characters"
	ErrRunnerInvalidIdentity RunnerServiceError = "login identity needs a subject and an email"
	ErrRunnerUpstream        RunnerServiceError = "runner data unavailable"
)

const maxDisplayName = 120

// Identity is the caller as asserted by a verified access token.
type Identity struct {
	Subject string
	Email   string
}

// IRunnerService manages runner profiles and their feed tokens.
type IRunnerService interface {
	EnsureRunner(ctx context.Context, id Identity) (*models.Runner, bool, error)
	GetBySubject(ctx context.Context, subject string) (*models.Runner, error)
	GetByID(ctx context.Context, id uint) (*models.Runner, error)
	UpdateDisplayName(ctx context.Context, runnerID uint, name string) (*models.Runner, error)
	List(ctx context.Context, nameQuery string) ([]models.Runner, error)
	ProvisionToken(ctx context.Context, runnerID uint) (*models.Runner, error)
	FeedURL(r *models.Runner) string
}

// RunnerService implements IRunnerService.
type RunnerService struct {
	runners repositories.IRunnerRepository
	baseURL string
}

// NewRunnerService builds feed links below baseURL, e.g. https://lauf.example.org.
func NewRunnerService(runners repositories.IRunnerRepository, baseURL string) IRunnerService {
	return &RunnerService{runners: runners, baseURL: strings.TrimRight(baseURL, "/")}
}

// EnsureRunner returns the runner for id, creating it on first login. A
// runner seeded by email before its first login is linked to the subject.
// The bool reports whether a new row was created.
func (s *RunnerService) EnsureRunner(ctx context.Context, id Identity) (*models.Runner, bool, error) {
	subject := strings.TrimSpace(id.Subject)
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if subject == "" || email == "" {
		return nil, false, ErrRunnerInvalidIdentity
	}

	runner, err := s.runners.FindByAuthUser(ctx, subject)
	if err == nil {
		return runner, false, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}

	runner, err = s.runners.FindByEmail(ctx, email)
	switch {
	case err == nil:
		data := map[string]interface{}{"auth_user": subject}
		if !runner.HasFeed() {
			token := models.NewFeedToken()
			data["ical_token"] = token
			runner.ICalToken = &token
		}
		if err := s.runners.Update(ctx, runner.ID, data); err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
		}
		runner.AuthUser = &subject
		configslog.Log.Info("Existing runner linked to login", zap.Uint("runner_id", runner.ID), zap.String("email", email))
		return runner, false, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, false, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}

	token := models.NewFeedToken()
	runner = &models.Runner{
		AuthUser:    &subject,
		DisplayName: models.DisplayNameFromEmail(email),
		Email:       email,
		ICalToken:   &token,
	}
	if err := s.runners.Create(ctx, runner); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}
	configslog.Log.Info("Runner created", zap.Uint("runner_id", runner.ID), zap.String("email", email))
	return runner, true, nil
}

func (s *RunnerService) GetBySubject(ctx context.Context, subject string) (*models.Runner, error) {
	return s.get(s.runners.FindByAuthUser(ctx, subject))
}

func (s *RunnerService) GetByID(ctx context.Context, id uint) (*models.Runner, error) {
	return s.get(s.runners.FindByID(ctx, id))
}

func (s *RunnerService) get(runner *models.Runner, err error) (*models.Runner, error) {
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRunnerNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}
	return runner, nil
}

func (s *RunnerService) UpdateDisplayName(ctx context.Context, runnerID uint, name string) (*models.Runner, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > maxDisplayName {
		return nil, ErrRunnerInvalidName
	}
	if err := s.runners.Update(ctx, runnerID, map[string]interface{}{"display_name": name}); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRunnerNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}
	return s.GetByID(ctx, runnerID)
}

func (s *RunnerService) List(ctx context.Context, nameQuery string) ([]models.Runner, error) {
	runners, err := s.runners.List(ctx, strings.TrimSpace(nameQuery))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}
	return runners, nil
}

// ProvisionToken gives the runner a feed token if it has none. An existing token is kept.
func (s *RunnerService) ProvisionToken(ctx context.Context, runnerID uint) (*models.Runner, error) {
	runner, err := s.GetByID(ctx, runnerID)
	if err != nil {
		return nil, err
	}
	if runner.HasFeed() {
		return runner, nil
	}
	token := models.NewFeedToken()
	if err := s.runners.Update(ctx, runner.ID, map[string]interface{}{"ical_token": token}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRunnerUpstream, err)
	}
	runner.ICalToken = &token
	configslog.Log.Info("Feed token provisioned", zap.Uint("runner_id", runner.ID))
	return runner, nil
}

// FeedURL is the subscription link, empty while no token exists.
func (s *RunnerService) FeedURL(r *models.Runner) string {
	if r == nil || !r.HasFeed() {
		return ""
	}
	return s.baseURL + "/api/ical/" + *r.ICalToken
}

var _ IRunnerService = (*RunnerService)(nil)
