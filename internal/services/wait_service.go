// Package services – WaitService
//
// This file implements the wait coordinator: it presents the asynchronous,
// push-driven exchange as a single bounded synchronous call by polling the
// stored record until a terminal status appears or the coordinator's own
// budget runs out. The coordinator holds no lock and mutates nothing itself
// (timeout materialization happens inside the read path), so any number of
// concurrent waits on the same request are safe and independent, and an
// abandoned wait leaves the record's eventual resolution untouched.
package services

import (
	"context"
	"time"

	"github.com/ccpush/go-interact-backend/internal/domain"
	"github.com/ccpush/go-interact-backend/internal/observability"
)

// StatusPollingTimeout is the soft result status returned when the wait
// budget is exhausted while the record is still pending in storage. It is
// not a record state: the interaction may still resolve later through
// respond or a subsequent read/wait.
const StatusPollingTimeout = "polling_timeout"

// Wait budget defaults: the caller's requested budget when omitted and the
// hard ceiling protecting the coordinator's own execution budget.
const (
	DefaultWaitTimeout = 30 * time.Second
	MaxWaitTimeout     = 60 * time.Second
	DefaultPollEvery   = 1 * time.Second
)

// InteractionReader is the read dependency of the wait coordinator. The
// implementation is expected to materialize the pending→timeout transition
// for expired records, as InteractionService.Get does.
type InteractionReader interface {
	Get(ctx context.Context, id string) (*domain.Interaction, error)
}

// WaitResult is the outcome of a wait call. Status is a terminal record
// status or StatusPollingTimeout; Response and RespondedAt are populated
// from the record when present.
type WaitResult struct {
	RequestID   string
	Status      string
	Response    domain.JSONMap
	RespondedAt *time.Time
}

// WaitService polls an interaction until resolution or budget exhaustion.
type WaitService struct {
	// Reader loads records (and lazily times them out).
	Reader InteractionReader

	// PollEvery is the fixed sleep between store reads.
	PollEvery time.Duration
	// MaxBudget caps the effective wait regardless of the caller's request.
	MaxBudget time.Duration
	// Now is the clock used for budget accounting. Overridable in tests.
	Now func() time.Time
}

// NewWaitService constructs a WaitService with the 1s poll interval and 60s
// budget ceiling.
func NewWaitService(reader InteractionReader) *WaitService {
	return &WaitService{
		Reader:    reader,
		PollEvery: DefaultPollEvery,
		MaxBudget: MaxWaitTimeout,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Wait blocks until the interaction reaches a terminal status or the
// effective budget min(timeoutSeconds, MaxBudget) elapses. timeoutSeconds
// <= 0 selects the default budget.
//
// The record is read at least once, so an already-resolved (or
// already-expired) interaction returns immediately. Between reads the
// coordinator sleeps PollEvery, clipped to the remaining budget, and aborts
// early when ctx is cancelled — cancellation never mutates the record.
//
// On budget exhaustion with the record still pending, Wait returns a soft
// WaitResult with StatusPollingTimeout and performs no store mutation.
func (s *WaitService) Wait(ctx context.Context, id string, timeoutSeconds int) (*WaitResult, error) {
	budget := DefaultWaitTimeout
	if timeoutSeconds > 0 {
		budget = time.Duration(timeoutSeconds) * time.Second
	}
	if budget > s.MaxBudget {
		budget = s.MaxBudget
	}
	deadline := s.Now().Add(budget)

	for {
		rec, err := s.Reader.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		observability.WaitPolls.Inc()

		if rec.Terminal() {
			return &WaitResult{
				RequestID:   rec.ID,
				Status:      rec.Status,
				Response:    rec.Response,
				RespondedAt: rec.RespondedAt,
			}, nil
		}

		remaining := deadline.Sub(s.Now())
		if remaining <= 0 {
			break
		}
		pause := s.PollEvery
		if pause > remaining {
			pause = remaining
		}
		if err := sleep(ctx, pause); err != nil {
			return nil, err
		}
	}

	return &WaitResult{RequestID: id, Status: StatusPollingTimeout}, nil
}

// sleep blocks for d or until ctx is done, returning the context error in
// the latter case.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
