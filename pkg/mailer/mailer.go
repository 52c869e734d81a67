// Package mailer delivers single transactional emails.
package mailer

import (
	"context"
	"errors"
)

// Message is one email to one recipient.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	ReplyTo string
}

// Sender delivers one message. A nil error means the provider accepted it.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrInvalidMessage = errors.New("mail needs a sender and a recipient")

func (m Message) validate() error {
	if m.From == "" || m.To == "" {
		return ErrInvalidMessage
	}
	return nil
}
