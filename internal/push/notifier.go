// Package push defines the outbound notification port used to wake a remote
// device, together with its Firebase Cloud Messaging implementation.
//
// The state machine treats delivery as strictly best-effort: a Notifier is
// invoked at most once per created interaction, reports success or failure
// synchronously, and carries no delivery-receipt or retry guarantee. Nothing
// in the coordination protocol depends on the push arriving.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Delivery priorities accepted by Send. They map 1:1 onto FCM's Android
// message priorities.
const (
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// MaxTTL is the longest time-to-live FCM accepts for a data message (28 days).
const MaxTTL = 2419200 * time.Second

// ErrInvalidPriority is returned by Send implementations for a priority
// outside {normal, high}.
var ErrInvalidPriority = errors.New("priority must be one of: normal, high")

// ErrInvalidTTL is returned by Send implementations for a TTL outside
// [0, MaxTTL].
var ErrInvalidTTL = errors.New("ttl must be between 0 and 2419200 seconds (28 days)")

// Message is a transport-agnostic data push. To selects the destination:
// values starting with "/topics/" address a topic, anything else is treated
// as a device registration token.
type Message struct {
	// To is the device token or "/topics/<name>" topic path.
	To string
	// Data is the opaque key-value payload delivered to the device.
	Data map[string]string
	// Priority is PriorityNormal or PriorityHigh.
	Priority string
	// TTL bounds how long the transport may retain an undelivered message.
	TTL time.Duration
}

// Validate checks the transport-level constraints shared by all Notifier
// implementations.
func (m Message) Validate() error {
	if m.Priority != PriorityNormal && m.Priority != PriorityHigh {
		return ErrInvalidPriority
	}
	if m.TTL < 0 || m.TTL > MaxTTL {
		return ErrInvalidTTL
	}
	return nil
}

// Notifier delivers a single data push and reports the outcome
// synchronously. Implementations must be safe for concurrent use.
type Notifier interface {
	// Send attempts delivery of msg and returns the transport's message
	// identifier on success.
	Send(ctx context.Context, msg Message) (string, error)
}

// ConvertData coerces a free-form mapping into the string-valued payload FCM
// requires: string values pass through unchanged, everything else is
// JSON-serialized.
func ConvertData(in map[string]any) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			// Unmarshalable values (channels, funcs) should not appear in
			// JSON-decoded input; drop them rather than failing the send.
			continue
		}
		out[k] = string(b)
	}
	return out
}
