// Package email sends transactional mail through an external provider.
package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send one email.
type SendRequest struct {
	To      []string
	From    string // sender address; falls back to the configured default
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult contains the provider's response.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
