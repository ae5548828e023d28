// Push HTTP handler.
//
// This file exposes the generic best-effort push endpoint:
//   - POST /push  (deliver an arbitrary data message)
//
// It bypasses the interaction state machine entirely: no record is created
// and delivery is attempted exactly once.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ccpush/go-interact-backend/internal/push"
	"github.com/ccpush/go-interact-backend/internal/services"
)

// SendPushRequest is the JSON payload for a one-off data push.
type SendPushRequest struct {
	// To is the device token or "/topics/<name>" topic path.
	To string `json:"to" example:"fcm-device-token"`
	// Data is the free-form payload; non-string values are JSON-stringified.
	Data map[string]any `json:"data"`
	// Priority is "normal" or "high".
	Priority string `json:"priority" example:"high"`
	// TTLSeconds bounds transport retention, 0..2419200 (28 days).
	TTLSeconds int `json:"ttl" example:"3600"`
}

// SendPushResponse acknowledges an accepted delivery.
type SendPushResponse struct {
	MessageID string `json:"message_id"`
}

// SendPush godoc
// @ID          sendPush
// @Summary     Send a data push
// @Description Delivers a single best-effort data message to a token or topic.
// @Tags        Push
// @Accept      json
// @Produce     json
//
// @Param       body body handlers.SendPushRequest true "Push payload"
//
// @Success     200  {object} handlers.SendPushResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing field, bad priority, or TTL out of range"
// @Failure     502  {object} handlers.ErrorResponse "Delivery failed"
// @Router      /push [post]
func (h *Handlers) SendPush(c *gin.Context) {
	var req SendPushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid JSON payload")
		return
	}

	id, err := h.pushes.Send(c.Request.Context(), services.SendInput{
		To:         req.To,
		Data:       req.Data,
		Priority:   req.Priority,
		TTLSeconds: req.TTLSeconds,
	})
	if err != nil {
		var missing *services.MissingFieldError
		switch {
		case errors.As(err, &missing),
			errors.Is(err, push.ErrInvalidPriority),
			errors.Is(err, push.ErrInvalidTTL):
			fail(c, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
		default:
			fail(c, http.StatusBadGateway, ErrCodePushFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, SendPushResponse{MessageID: id})
}
