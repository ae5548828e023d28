// Package services – InteractionService
//
// This file implements the interaction state machine: creating a pending
// record and firing its push trigger, reading a record with lazy timeout
// materialization, and recording the single authoritative human decision.
//
// Every transition out of pending goes through the repository's conditional
// status update (compare-and-swap on status='pending'), so concurrent
// responders and timeout-materializing readers resolve deterministically:
// the first writer to observe pending wins and every loser re-reads to learn
// the winning status. Service-level errors (ErrInteractionNotFound,
// ErrDeadlineExceeded, AlreadyResolvedError, ...) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ccpush/go-interact-backend/internal/domain"
	"github.com/ccpush/go-interact-backend/internal/observability"
	"github.com/ccpush/go-interact-backend/internal/push"
)

// DefaultInteractionTimeout bounds how long a freshly created interaction
// stays answerable when the caller does not choose a timeout.
const DefaultInteractionTimeout = 300 * time.Second

// InteractionRepo defines the repository contract required by
// InteractionService. Implementations are responsible for persistence of
// interaction records and the atomic status transition.
type InteractionRepo interface {
	// CreateInteraction inserts a fresh pending record.
	CreateInteraction(ctx context.Context, db *gorm.DB, destination, typ, title, message string, metadata domain.JSONMap, timeout time.Duration, now time.Time) (*domain.Interaction, error)

	// GetInteraction fetches a record by ID (repo.ErrNotFound when missing).
	GetInteraction(ctx context.Context, db *gorm.DB, id string) (*domain.Interaction, error)

	// MarkStatus transitions a record out of pending iff it is still pending.
	MarkStatus(ctx context.Context, db *gorm.DB, id, status string, response domain.JSONMap, respondedAt *time.Time) (bool, error)
}

// CreateInput carries the caller-supplied fields of a create request.
// TimeoutSeconds <= 0 selects the default timeout.
type CreateInput struct {
	Destination    string
	Type           string
	Title          string
	Message        string
	Metadata       domain.JSONMap
	TimeoutSeconds int
}

// InteractionService implements the interaction lifecycle. Each method is a
// stateless invocation over the shared record; the service holds no mutable
// state of its own and is safe for concurrent use.
type InteractionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the interaction repository used by this service.
	Repo InteractionRepo
	// Notifier delivers the push trigger; invoked at most once per Create.
	Notifier push.Notifier

	// DefaultTimeout applies when CreateInput.TimeoutSeconds is omitted.
	DefaultTimeout time.Duration
	// Now is the single clock source for CreatedAt, ExpiresAt, and every
	// later expiry comparison. Overridable in tests.
	Now func() time.Time
}

// NewInteractionService constructs an InteractionService with the default
// timeout and a UTC wall clock.
func NewInteractionService(db *gorm.DB, repo InteractionRepo, notifier push.Notifier) *InteractionService {
	return &InteractionService{
		DB:             db,
		Repo:           repo,
		Notifier:       notifier,
		DefaultTimeout: DefaultInteractionTimeout,
		Now:            func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the input, persists a pending record, and triggers the
// push notifier.
//
// Semantics:
//   - destination, type, title, and message must be non-empty
//     (MissingFieldError) and type must be a known interaction type
//     (ErrInvalidType). Validation happens before any store write.
//   - The record is written with status=pending and
//     expiresAt = now + timeout; the push payload carries the request ID,
//     the interaction type, the display strings, and the metadata as JSON
//     text, delivered at high priority with TTL equal to the timeout.
//   - If delivery fails, the record is transitioned to fcm_failed with the
//     failure detail recorded in response, and ErrPushFailed is returned
//     together with the record: creation is not rolled back and the record
//     stays queryable.
//
// On success it returns the pending record.
func (s *InteractionService) Create(ctx context.Context, in CreateInput) (*domain.Interaction, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}

	timeout := s.DefaultTimeout
	if in.TimeoutSeconds > 0 {
		timeout = time.Duration(in.TimeoutSeconds) * time.Second
	}

	rec, err := s.Repo.CreateInteraction(ctx, s.DB, in.Destination, in.Type, in.Title, in.Message, in.Metadata, timeout, s.Now())
	if err != nil {
		return nil, err
	}
	observability.InteractionsCreated.Inc()

	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		// Metadata already survived a round-trip through the JSON column.
		metadataJSON = []byte("{}")
	}

	msg := push.Message{
		To: rec.Destination,
		Data: map[string]string{
			"type":            "interactive",
			"requestId":       rec.ID,
			"interactiveType": rec.Type,
			"title":           rec.Title,
			"message":         rec.Message,
			"metadata":        string(metadataJSON),
		},
		Priority: push.PriorityHigh,
		TTL:      timeout,
	}

	if _, err := s.Notifier.Send(ctx, msg); err != nil {
		observability.PushSendFailures.Inc()
		detail := domain.JSONMap{"error": err.Error()}
		if _, markErr := s.Repo.MarkStatus(ctx, s.DB, rec.ID, domain.StatusFCMFailed, detail, nil); markErr != nil {
			log.Error().Err(markErr).Str("request_id", rec.ID).Msg("failed to record push failure")
		} else {
			observability.InteractionsResolved.WithLabelValues(domain.StatusFCMFailed).Inc()
		}
		rec.Status = domain.StatusFCMFailed
		rec.Response = detail
		return rec, fmt.Errorf("%w: %v", ErrPushFailed, err)
	}

	return rec, nil
}

// Get fetches an interaction by ID, materializing the timeout transition
// when a pending record's deadline has passed. This lazy transition is the
// only path (besides Respond) that resolves a stale pending record when no
// one is actively waiting.
//
// Errors:
//   - ErrInteractionNotFound when no record exists for id.
//   - The underlying DB error for unexpected failures.
func (s *InteractionService) Get(ctx context.Context, id string) (*domain.Interaction, error) {
	rec, err := s.Repo.GetInteraction(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInteractionNotFound
		}
		return nil, err
	}

	if rec.Status == domain.StatusPending && rec.Expired(s.Now()) {
		ok, err := s.Repo.MarkStatus(ctx, s.DB, rec.ID, domain.StatusTimeout, nil, nil)
		if err != nil {
			return nil, err
		}
		if ok {
			observability.InteractionsResolved.WithLabelValues(domain.StatusTimeout).Inc()
			rec.Status = domain.StatusTimeout
		} else {
			// Lost the race against a concurrent respond or another reader;
			// re-read to report the winning status.
			if rec, err = s.Repo.GetInteraction(ctx, s.DB, rec.ID); err != nil {
				return nil, err
			}
		}
	}

	return rec, nil
}

// Respond records the human decision for an interaction. It is the single
// authoritative writer of that decision.
//
// Semantics and validation:
//   - status must be approved or denied; otherwise ErrInvalidRespondStatus.
//   - The record must exist; otherwise ErrInteractionNotFound.
//   - A record that already left pending is never overwritten, even with an
//     identical status: AlreadyResolvedError names the persisted status.
//   - A respond after expiry transitions the record to timeout and fails
//     with ErrDeadlineExceeded; a late human decision never overwrites a
//     timeout.
//   - Otherwise the record moves to the requested status with response
//     (defaulting to an empty mapping) and respondedAt set.
//
// Concurrency: both terminal transitions go through the conditional status
// update, so two racing responds (or a respond racing a timeout-materializing
// read) persist exactly one outcome; the loser re-reads and reports the
// winner's status.
func (s *InteractionService) Respond(ctx context.Context, id, status string, response domain.JSONMap) error {
	if status != domain.StatusApproved && status != domain.StatusDenied {
		return ErrInvalidRespondStatus
	}

	rec, err := s.Repo.GetInteraction(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInteractionNotFound
		}
		return err
	}

	if rec.Terminal() {
		return &AlreadyResolvedError{Status: rec.Status}
	}

	now := s.Now()
	if rec.Expired(now) {
		ok, err := s.Repo.MarkStatus(ctx, s.DB, rec.ID, domain.StatusTimeout, nil, nil)
		if err != nil {
			return err
		}
		if ok {
			observability.InteractionsResolved.WithLabelValues(domain.StatusTimeout).Inc()
			return ErrDeadlineExceeded
		}
		return s.loserError(ctx, rec.ID)
	}

	if response == nil {
		response = domain.JSONMap{}
	}
	ok, err := s.Repo.MarkStatus(ctx, s.DB, rec.ID, status, response, &now)
	if err != nil {
		return err
	}
	if !ok {
		return s.loserError(ctx, rec.ID)
	}

	observability.InteractionsResolved.WithLabelValues(status).Inc()
	log.Info().Str("request_id", rec.ID).Str("status", status).Msg("interaction responded")
	return nil
}

// loserError re-reads a record after a lost conditional update and maps the
// winning status to the matching service error.
func (s *InteractionService) loserError(ctx context.Context, id string) error {
	rec, err := s.Repo.GetInteraction(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if rec.Status == domain.StatusTimeout {
		return ErrDeadlineExceeded
	}
	return &AlreadyResolvedError{Status: rec.Status}
}

// validateCreate enforces the create preconditions before any store write.
func validateCreate(in CreateInput) error {
	for _, f := range []struct{ name, val string }{
		{"destination", in.Destination},
		{"type", in.Type},
		{"title", in.Title},
		{"message", in.Message},
	} {
		if strings.TrimSpace(f.val) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	if !domain.IsValidType(in.Type) {
		return ErrInvalidType
	}
	return nil
}
