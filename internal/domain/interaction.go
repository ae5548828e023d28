// Package domain defines the persistence model for interaction requests.
// The Interaction type is mapped with GORM and forms the core data layer
// of the coordination backend: a single durable record mediates the whole
// request/response exchange between a backend caller and a remote device.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Interaction statuses. An interaction starts as pending and moves exactly
// once into one of the terminal statuses; no transition ever leaves a
// terminal status.
const (
	// StatusPending is the initial state: the record exists and the device
	// has (best-effort) been notified, but no decision was recorded yet.
	StatusPending = "pending"
	// StatusApproved records a positive human decision.
	StatusApproved = "approved"
	// StatusDenied records a negative human decision.
	StatusDenied = "denied"
	// StatusTimeout means the deadline passed before any decision arrived.
	StatusTimeout = "timeout"
	// StatusFCMFailed means the push trigger could not be delivered at
	// creation time. The record stays queryable in this state.
	StatusFCMFailed = "fcm_failed"
)

// Interaction types. The type tells the device how to render the decision
// UI; the backend stores it opaquely and does not validate it further.
const (
	TypePermission = "permission"
	TypeConfirm    = "confirm"
	TypeInput      = "input"
	TypeChoice     = "choice"
)

// ValidTypes lists the accepted interaction types in a stable order,
// suitable for validation errors.
var ValidTypes = []string{TypePermission, TypeConfirm, TypeInput, TypeChoice}

// IsValidType reports whether t is one of the accepted interaction types.
func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether s is a terminal interaction status
// (anything other than pending).
func IsTerminalStatus(s string) bool { return s != StatusPending }

// JSONMap is a free-form string-keyed mapping stored as a JSON TEXT column.
// It is used for the opaque metadata attached at creation and for the
// response recorded at resolution. A nil JSONMap round-trips as SQL NULL,
// which is how "no response yet" is represented.
type JSONMap map[string]any

// Value implements driver.Valuer by serializing the map to JSON text.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner by decoding JSON text (or NULL) into the map.
func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return errors.New("jsonmap: unsupported source type")
	}
	if len(b) == 0 {
		*m = nil
		return nil
	}
	return json.Unmarshal(b, m)
}

// Interaction represents a single request/response exchange with a remote
// device. One row exists per request ID; the row is created by the create
// operation and mutated at most once on the transition out of pending.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), allocated at creation.
//   - Destination: opaque push addressing token (device token or topic);
//     immutable.
//   - Type: one of permission|confirm|input|choice; immutable.
//   - Title / Message: display strings shown on the device; immutable.
//   - Metadata: free-form JSON payload forwarded to the device; immutable.
//   - Status: pending|approved|denied|timeout|fcm_failed; monotonic.
//   - Response: decision payload; NULL until a terminal human or error
//     outcome is recorded.
//   - CreatedAt: set exactly once at creation (UTC).
//   - RespondedAt: set exactly once on the transition into approved/denied.
//   - ExpiresAt: CreatedAt + requested timeout; fixed at creation, no
//     operation may extend it.
type Interaction struct {
	ID          string     `json:"request_id"   gorm:"type:char(36);primaryKey"`
	Destination string     `json:"destination"  gorm:"type:varchar(512);not null"`
	Type        string     `json:"type"         gorm:"type:varchar(16);not null;check:type IN ('permission','confirm','input','choice')"`
	Title       string     `json:"title"        gorm:"type:varchar(255);not null"`
	Message     string     `json:"message"      gorm:"type:text;not null"`
	Metadata    JSONMap    `json:"metadata"     gorm:"type:text"`
	Status      string     `json:"status"       gorm:"type:varchar(16);not null;index;check:status IN ('pending','approved','denied','timeout','fcm_failed')"`
	Response    JSONMap    `json:"response"     gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`
	ExpiresAt   time.Time  `json:"expires_at"   gorm:"not null;index"`
}

// TableName returns the database table name for Interaction.
func (Interaction) TableName() string { return "interactions" }

// Terminal reports whether the interaction has left the pending state.
func (i *Interaction) Terminal() bool { return IsTerminalStatus(i.Status) }

// Expired reports whether the interaction's deadline has passed at now.
// It says nothing about the stored status; callers combine it with the
// pending check to decide on the lazy timeout transition.
func (i *Interaction) Expired(now time.Time) bool { return now.After(i.ExpiresAt) }
