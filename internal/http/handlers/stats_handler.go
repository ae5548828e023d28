// Stats HTTP handler.
//
// This file exposes a small operational endpoint summarizing the
// interactions table:
//   - GET /stats
//
// It is intended for dashboards and smoke checks, not for callers of the
// coordination protocol.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ccpush/go-interact-backend/internal/repo"
)

// StatsProvider supplies the interaction aggregates behind GET /stats.
type StatsProvider interface {
	// CollectStats returns current interaction counts and the next deadline.
	CollectStats(ctx context.Context) (*repo.InteractionStats, error)
}

// StatsResponse is the JSON shape of GET /stats.
type StatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	NextExpiry *string          `json:"next_expiry"`
}

// Stats godoc
// @ID          interactionStats
// @Summary     Interaction table statistics
// @Description Returns row counts by status and the earliest pending deadline.
// @Tags        Ops
// @Produce     json
//
// @Success     200  {object} handlers.StatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	s, err := h.stats.CollectStats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, StatsResponse{
		Total:      s.Total,
		ByStatus:   s.ByStatus,
		NextExpiry: formatTime(s.NextExpiry),
	})
}
