// Package services defines the business logic for interaction coordination
// and push delivery. This file centralizes common service-level error values
// so that they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ccpush/go-interact-backend/internal/domain"
)

// Interaction-related errors.
var (
	// ErrInteractionNotFound indicates that the requested interaction does
	// not exist.
	ErrInteractionNotFound = errors.New("interaction not found")

	// ErrInvalidType is returned when a create request carries an
	// interaction type outside the allowed set.
	ErrInvalidType = fmt.Errorf("'type' must be one of: %s", strings.Join(domain.ValidTypes, ","))

	// ErrInvalidRespondStatus is returned when a respond request carries a
	// status other than approved or denied.
	ErrInvalidRespondStatus = errors.New("'status' must be one of: approved,denied")

	// ErrDeadlineExceeded is returned when a respond arrives after the
	// interaction's expiry; the record is left in the timeout state.
	ErrDeadlineExceeded = errors.New("interaction has expired")

	// ErrPushFailed wraps a Notifier delivery failure during create. The
	// interaction record survives in the fcm_failed state.
	ErrPushFailed = errors.New("failed to send push notification")
)

// MissingFieldError reports a required request field that was absent or
// empty. The message format mirrors the wire-level validation errors the
// device clients already parse.
type MissingFieldError struct {
	// Field is the name of the missing request field.
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string { return fmt.Sprintf("'%s' must exist", e.Field) }

// AlreadyResolvedError reports a respond attempt against an interaction that
// has already left the pending state. Status carries the winning terminal
// status so callers can surface it ("interaction already approved").
type AlreadyResolvedError struct {
	// Status is the terminal status already persisted on the record.
	Status string
}

// Error implements the error interface.
func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("interaction already %s", e.Status)
}
