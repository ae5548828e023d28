// Package repo implements the data persistence layer for interaction
// records, backed by GORM. This file provides repository functions for the
// Interaction model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and the conditional status update.
//
// Error semantics:
//   - When an interaction is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Concurrency:
//   - All mutation after creation goes through MarkStatus, a compare-and-swap
//     on the status column: UPDATE ... WHERE id = ? AND status = 'pending'.
//     The first writer to observe pending wins; every later writer sees zero
//     rows affected and must re-read to learn the winning status. This is the
//     single correctness-critical primitive of the whole service.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ccpush/go-interact-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateInteraction inserts a new pending Interaction with a fresh UUID.
// CreatedAt is the supplied now (UTC) and ExpiresAt is now + timeout, so
// one clock source writes both sides of every later expiry comparison.
//
// On success, it returns the persisted Interaction. On failure, it returns
// a DB error.
func CreateInteraction(ctx context.Context, db *gorm.DB, destination, typ, title, message string, metadata domain.JSONMap, timeout time.Duration, now time.Time) (*domain.Interaction, error) {
	if metadata == nil {
		metadata = domain.JSONMap{}
	}
	rec := &domain.Interaction{
		ID:          uuid.NewString(),
		Destination: destination,
		Type:        typ,
		Title:       title,
		Message:     message,
		Metadata:    metadata,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(timeout),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, err
	}
	return rec, nil
}

// GetInteraction fetches a single interaction by ID. If the record does not
// exist, it returns ErrNotFound. On other DB errors, the raw error is
// returned.
func GetInteraction(ctx context.Context, db *gorm.DB, id string) (*domain.Interaction, error) {
	var rec domain.Interaction
	if err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// MarkStatus atomically transitions an interaction out of pending.
//
// The update is guarded by `status = 'pending'`, so it succeeds for at most
// one caller per record regardless of how many respond calls and
// timeout-materializing reads race each other. It returns:
//   - (true, nil) when this caller performed the transition;
//   - (false, nil) when the record exists but had already left pending
//     (or does not exist — callers that care re-read to distinguish);
//   - (false, err) on DB failure.
//
// response replaces the stored response verbatim (nil leaves it NULL);
// respondedAt is written only when non-nil, i.e. on the approved/denied
// transitions.
func MarkStatus(ctx context.Context, db *gorm.DB, id, status string, response domain.JSONMap, respondedAt *time.Time) (bool, error) {
	updates := map[string]any{"status": status}
	if response != nil {
		updates["response"] = response
	}
	if respondedAt != nil {
		updates["responded_at"] = respondedAt
	}
	res := db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
