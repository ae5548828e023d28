// Package services – PushService
//
// This file implements the generic push operation: a thin validation layer
// over the Notifier for callers that want to deliver an arbitrary data
// message without creating an interaction. Delivery remains best-effort and
// is attempted exactly once.
package services

import (
	"context"
	"time"

	"github.com/ccpush/go-interact-backend/internal/observability"
	"github.com/ccpush/go-interact-backend/internal/push"
)

// SendInput carries the caller-supplied fields of a generic send request.
type SendInput struct {
	// To is the device token or "/topics/<name>" topic path.
	To string
	// Data is the free-form payload; non-string values are JSON-stringified
	// before delivery.
	Data map[string]any
	// Priority is "normal" or "high".
	Priority string
	// TTLSeconds bounds transport retention, 0..2419200 (28 days).
	TTLSeconds int
}

// PushService forwards validated messages to the Notifier.
type PushService struct {
	Notifier push.Notifier
}

// Send validates in and attempts a single delivery, returning the
// transport's message ID.
//
// Errors:
//   - MissingFieldError for an empty destination or payload.
//   - push.ErrInvalidPriority / push.ErrInvalidTTL for out-of-range
//     transport options.
//   - The wrapped Notifier error on delivery failure.
func (s *PushService) Send(ctx context.Context, in SendInput) (string, error) {
	if in.To == "" {
		return "", &MissingFieldError{Field: "to"}
	}
	if len(in.Data) == 0 {
		return "", &MissingFieldError{Field: "data"}
	}

	msg := push.Message{
		To:       in.To,
		Data:     push.ConvertData(in.Data),
		Priority: in.Priority,
		TTL:      time.Duration(in.TTLSeconds) * time.Second,
	}
	if err := msg.Validate(); err != nil {
		return "", err
	}

	id, err := s.Notifier.Send(ctx, msg)
	if err != nil {
		observability.PushSendFailures.Inc()
		return "", err
	}
	return id, nil
}
