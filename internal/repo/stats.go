// Package repo implements the data persistence layer for interaction
// records, backed by GORM. This file provides small aggregate/statistics
// queries used by the operational stats endpoint. Each function is
// context-aware and safe to call from services or handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/ccpush/go-interact-backend/internal/domain"
)

// InteractionStats summarizes the interactions table for operational
// visibility: how many records sit in each status and the next pending
// deadline.
type InteractionStats struct {
	// Total is the number of interaction rows.
	Total int64
	// ByStatus maps each observed status to its row count.
	ByStatus map[string]int64
	// NextExpiry is the earliest ExpiresAt among pending rows, or nil when
	// nothing is pending.
	NextExpiry *time.Time
}

// CollectInteractionStats runs the aggregate queries behind InteractionStats.
// When the table is empty, it returns zero counts and a nil NextExpiry.
func CollectInteractionStats(ctx context.Context, db *gorm.DB) (*InteractionStats, error) {
	stats := &InteractionStats{ByStatus: make(map[string]int64)}

	var rows []struct {
		Status string
		N      int64
	}
	err := db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.N
		stats.Total += r.N
	}

	if stats.ByStatus[domain.StatusPending] > 0 {
		// Avoid MIN() -> TEXT in SQLite by ordering instead of aggregating.
		var row struct {
			ExpiresAt time.Time
		}
		err := db.WithContext(ctx).
			Model(&domain.Interaction{}).
			Select("expires_at").
			Where("status = ?", domain.StatusPending).
			Order("expires_at ASC").
			Limit(1).
			Scan(&row).Error
		if err != nil {
			return nil, err
		}
		if !row.ExpiresAt.IsZero() {
			t := row.ExpiresAt
			stats.NextExpiry = &t
		}
	}

	return stats, nil
}
