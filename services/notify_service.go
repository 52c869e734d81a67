package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"laufmanager.de/configs"
	"laufmanager.de/configs/configslog"
	"laufmanager.de/models"
	"laufmanager.de/pkg/mailer"
	"laufmanager.de/pkg/settle"
	"laufmanager.de/repositories"

	"go.uber.org/zap"
)

// NotifyServiceError is the error kind returned by Dispatch.
type NotifyServiceError string

func (e NotifyServiceError) Error() string { return string(e) }

const (
	ErrNotifyMissingBody NotifyServiceError = "message text is empty"
	ErrNotifyPersistence NotifyServiceError = "message could not be recorded"
	ErrNotifyRecipients  NotifyServiceError = "recipients could not be resolved"
)

// DispatchRequest is one broadcast: the text, its audience and an optional event.
type DispatchRequest struct {
	Scope   string
	EventID *uint
	Text    string
}

// DispatchReport describes one broadcast. Mailed counts accepted deliveries only.
type DispatchReport struct {
	Scope      models.MessageScope `json:"scope"`
	EventID    *uint               `json:"event_id"`
	MessageID  uint                `json:"message_id"`
	Recipients int                 `json:"recipients"`
	Mailed     int                 `json:"mailed"`
	Failed     int                 `json:"failed"`
}

// NotifyOptions configures delivery. A nil sender or Enabled=false records
// messages without mailing them.
type NotifyOptions struct {
	Enabled     bool
	HasAPIKey   bool
	From        string
	ReplyTo     string
	Subject     string
	Concurrency int
}

// NotifyOptionsFrom derives the mail settings from the app config.
func NotifyOptionsFrom(cfg *configs.AppConfig) NotifyOptions {
	return NotifyOptions{
		Enabled:     cfg.MailEnabled(),
		HasAPIKey:   cfg.Mail.APIKey != "",
		From:        cfg.Mail.From,
		ReplyTo:     cfg.Mail.ReplyTo,
		Subject:     cfg.Mail.Subject,
		Concurrency: cfg.Mail.Concurrency,
	}
}

// MailStatus is the admin view of the delivery configuration.
type MailStatus struct {
	Enabled       bool   `json:"enabled"`
	HasAPIKey     bool   `json:"has_api_key"`
	From          string `json:"from"`
	ReplyTo       string `json:"reply_to"`
	AllRecipients int64  `json:"all_recipients"`
}

// INotifyService sends broadcasts and keeps their history.
type INotifyService interface {
	Dispatch(ctx context.Context, req DispatchRequest) (*DispatchReport, error)
	RecentMessages(ctx context.Context, limit int) ([]models.Message, error)
	Status(ctx context.Context) (*MailStatus, error)
}

// NotifyService stores each broadcast before handing it to the mail sender.
type NotifyService struct {
	runners    repositories.IRunnerRepository
	events     repositories.IEventRepository
	attendance repositories.IAttendanceRepository
	messages   repositories.IMessageRepository
	sender     mailer.Sender
	clock      Clock
	opts       NotifyOptions
}

// NewNotifyService returns a NotifyService. A nil sender stores messages without delivering them.
func NewNotifyService(
	runners repositories.IRunnerRepository,
	events repositories.IEventRepository,
	attendance repositories.IAttendanceRepository,
	messages repositories.IMessageRepository,
	sender mailer.Sender,
	clock Clock,
	opts NotifyOptions,
) INotifyService {
	return &NotifyService{
		runners:    runners,
		events:     events,
		attendance: attendance,
		messages:   messages,
		sender:     sender,
		clock:      clock,
		opts:       opts,
	}
}

// Dispatch records the message, resolves its recipients and mails each of
// them independently. The record is written first and is kept even when
// every delivery fails.
func (s *NotifyService) Dispatch(ctx context.Context, req DispatchRequest) (*DispatchReport, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, ErrNotifyMissingBody
	}

	audience := NormalizeAudience(req.Scope, req.EventID)

	message := &models.Message{Scope: audience.Scope, Body: text, EventID: audience.EventID}
	if err := s.messages.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotifyPersistence, err)
	}

	report := &DispatchReport{Scope: audience.Scope, EventID: audience.EventID, MessageID: message.ID}

	recipients, eventID, err := s.resolve(ctx, audience)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotifyRecipients, err)
	}
	report.EventID = eventID
	report.Recipients = len(recipients)

	if len(recipients) == 0 || !s.deliveryEnabled() {
		configslog.Log.Info("Broadcast recorded without delivery",
			zap.Uint("message_id", message.ID),
			zap.String("scope", string(audience.Scope)),
			zap.Int("recipients", len(recipients)),
			zap.Bool("delivery_enabled", s.deliveryEnabled()))
		return report, nil
	}

	outcomes := settle.All(ctx, recipients, s.opts.Concurrency, func(ctx context.Context, to string) error {
		return s.sender.Send(ctx, mailer.Message{
			From:    s.opts.From,
			To:      to,
			Subject: s.opts.Subject,
			Text:    text,
			ReplyTo: s.opts.ReplyTo,
		})
	})
	report.Mailed = settle.Succeeded(outcomes)
	report.Failed = len(outcomes) - report.Mailed
	if err := settle.Errors(outcomes); err != nil {
		configslog.Log.Warn("Some broadcast deliveries failed",
			zap.Uint("message_id", message.ID),
			zap.Int("failed", report.Failed),
			zap.Error(err))
	}

	configslog.Log.Info("Broadcast dispatched",
		zap.Uint("message_id", message.ID),
		zap.String("scope", string(audience.Scope)),
		zap.Int("recipients", report.Recipients),
		zap.Int("mailed", report.Mailed))
	return report, nil
}

func (s *NotifyService) deliveryEnabled() bool {
	return s.opts.Enabled && s.sender != nil
}

// resolve returns the deduplicated addresses for audience and, for attendee
// scope, the event they were taken from.
func (s *NotifyService) resolve(ctx context.Context, audience Audience) ([]string, *uint, error) {
	if audience.Scope == models.ScopeAll {
		emails, err := s.runners.ListEmails(ctx)
		if err != nil {
			return nil, nil, err
		}
		return uniqueEmails(emails), nil, nil
	}

	eventID := audience.EventID
	if eventID == nil {
		next, err := s.events.FindNextUpcoming(ctx, s.clock.Today())
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, nil
		}
		if err != nil {
			return nil, nil, err
		}
		id := next.ID
		eventID = &id
	}

	emails, err := s.attendance.ListConfirmedEmails(ctx, *eventID)
	if err != nil {
		return nil, nil, err
	}
	return uniqueEmails(emails), eventID, nil
}

// uniqueEmails trims, drops empties and removes case-insensitive duplicates,
// keeping the first spelling.
func uniqueEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		key := strings.ToLower(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

func (s *NotifyService) RecentMessages(ctx context.Context, limit int) ([]models.Message, error) {
	return s.messages.ListRecent(ctx, limit)
}

func (s *NotifyService) Status(ctx context.Context) (*MailStatus, error) {
	n, err := s.runners.CountWithEmail(ctx)
	if err != nil {
		return nil, err
	}
	return &MailStatus{
		Enabled:       s.deliveryEnabled(),
		HasAPIKey:     s.opts.HasAPIKey,
		From:          s.opts.From,
		ReplyTo:       s.opts.ReplyTo,
		AllRecipients: n,
	}, nil
}

var _ INotifyService = (*NotifyService)(nil)
