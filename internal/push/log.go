// Package push – log notifier.
//
// LogNotifier is the credential-less stand-in for FCM used in local
// development and tests: it records the would-be delivery in the structured
// log and always reports success.
package push

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LogNotifier implements Notifier by logging the message instead of
// delivering it.
type LogNotifier struct{}

// Send validates msg, logs it, and returns a synthetic message ID.
func (LogNotifier) Send(_ context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	id := "log-" + uuid.NewString()
	log.Info().
		Str("to", msg.To).
		Str("priority", msg.Priority).
		Dur("ttl", msg.TTL).
		Int("data_keys", len(msg.Data)).
		Str("message_id", id).
		Msg("push delivery skipped (log notifier)")
	return id, nil
}
