package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/multierr"
)

const DefaultResendURL = "https://api.resend.com"

// ResendSender posts messages to the Resend HTTP API.
type ResendSender struct {
	apiKey  string
	baseURL string
	timeout time.Duration
}

// NewResendSender returns a Sender posting to the Resend API at baseURL.
func NewResendSender(apiKey, baseURL string, timeout time.Duration) *ResendSender {
	if baseURL == "" {
		baseURL = DefaultResendURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ResendSender{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
	}
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// ProviderError is a non-2xx answer from the mail API.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("mail provider answered %d: %s", e.Status, e.Body)
}

// Send delivers msg. Only a 2xx status counts as success.
func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	if err := msg.validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(s.baseURL + "/emails").
		Set(fiber.HeaderAuthorization, "Bearer "+s.apiKey).
		Timeout(s.timeout).
		JSON(resendPayload{
			From:    msg.From,
			To:      []string{msg.To},
			Subject: msg.Subject,
			Text:    msg.Text,
			ReplyTo: msg.ReplyTo,
		})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("sending mail to %s: %w", msg.To, multierr.Combine(errs...))
	}
	if code < 200 || code > 299 {
		return &ProviderError{Status: code, Body: truncate(string(body), 200)}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

var _ Sender = (*ResendSender)(nil)
