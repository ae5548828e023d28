// Interaction HTTP handlers.
//
// This file exposes the REST endpoints for the interaction lifecycle:
//   - POST /interactions               (create + push trigger)
//   - GET  /interactions/{id}          (read, with lazy timeout)
//   - POST /interactions/{id}/respond  (record the device decision)
//   - POST /interactions/{id}/wait     (bounded wait for resolution)
//
// Handlers are transport-thin: they decode input, delegate to application
// services, and translate service errors into HTTP results. All state
// machine rules live in the services package.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ccpush/go-interact-backend/internal/domain"
	"github.com/ccpush/go-interact-backend/internal/push"
	"github.com/ccpush/go-interact-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// InteractionService defines the interaction lifecycle operations consumed
// by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type InteractionService interface {
	// Create persists a pending interaction and triggers the push notifier.
	Create(ctx context.Context, in services.CreateInput) (*domain.Interaction, error)
	// Get returns an interaction, materializing its timeout when expired.
	Get(ctx context.Context, id string) (*domain.Interaction, error)
	// Respond records the device decision for a pending interaction.
	Respond(ctx context.Context, id, status string, response domain.JSONMap) error
}

// WaitService defines the bounded-wait operation consumed by HTTP handlers.
type WaitService interface {
	// Wait blocks until resolution or budget exhaustion.
	Wait(ctx context.Context, id string, timeoutSeconds int) (*services.WaitResult, error)
}

// PushService defines the generic push delivery operation.
type PushService interface {
	// Send delivers a one-off data message and returns its transport ID.
	Send(ctx context.Context, in services.SendInput) (string, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for interactions and push delivery.
// It depends on abstract service interfaces to keep transport concerns
// separate from the state machine.
type Handlers struct {
	interactions InteractionService
	waits        WaitService
	pushes       PushService
	stats        StatsProvider
}

// New constructs a Handlers instance bound to the given services.
func New(interactions InteractionService, waits WaitService, pushes PushService, stats StatsProvider) *Handlers {
	return &Handlers{interactions: interactions, waits: waits, pushes: pushes, stats: stats}
}

//
// DTOs
//

// CreateInteractionRequest is the JSON payload for creating an interaction.
type CreateInteractionRequest struct {
	// Destination is the device token or "/topics/<name>" topic path.
	Destination string `json:"destination" example:"fcm-device-token"`
	// Type selects the device-side decision UI: permission|confirm|input|choice.
	Type string `json:"type" example:"confirm"`
	// Title is the short headline shown on the device.
	Title string `json:"title" example:"Deploy?"`
	// Message is the full prompt shown on the device.
	Message string `json:"message" example:"Proceed with deploy"`
	// Metadata is forwarded opaquely to the device.
	Metadata map[string]any `json:"metadata,omitempty"`
	// TimeoutSeconds bounds how long the interaction stays answerable
	// (default 300).
	TimeoutSeconds int `json:"timeout_seconds,omitempty" example:"300"`
}

// CreateInteractionResponse acknowledges a created interaction.
type CreateInteractionResponse struct {
	RequestID string `json:"request_id" example:"fa4dfbe0-c3bf-47bd-b32f-d7de221cf43b"`
	Status    string `json:"status" example:"pending"`
}

// InteractionResponse is the full record returned by the read endpoint.
// Timestamps are RFC 3339 text or null.
type InteractionResponse struct {
	RequestID   string         `json:"request_id"`
	Destination string         `json:"destination"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Metadata    map[string]any `json:"metadata"`
	Status      string         `json:"status"`
	Response    map[string]any `json:"response"`
	CreatedAt   *string        `json:"created_at"`
	RespondedAt *string        `json:"responded_at"`
	ExpiresAt   *string        `json:"expires_at"`
}

// RespondInteractionRequest is the JSON payload for recording a decision.
type RespondInteractionRequest struct {
	// Status is the decision: approved or denied.
	Status string `json:"status" example:"approved"`
	// Response optionally carries decision details (free-form).
	Response map[string]any `json:"response,omitempty"`
}

// RespondInteractionResponse acknowledges a recorded decision.
type RespondInteractionResponse struct {
	Success bool `json:"success" example:"true"`
}

// WaitInteractionRequest is the JSON payload for the wait endpoint. The body
// is optional; an empty body selects the default budget.
type WaitInteractionRequest struct {
	// TimeoutSeconds is the requested wait budget (default 30, capped at 60).
	TimeoutSeconds int `json:"timeout_seconds,omitempty" example:"30"`
}

// WaitInteractionResponse is the wait outcome: a terminal record status with
// its response, or status "polling_timeout" when the record is still pending.
type WaitInteractionResponse struct {
	RequestID   string         `json:"request_id"`
	Status      string         `json:"status"`
	Response    map[string]any `json:"response"`
	RespondedAt *string        `json:"responded_at"`
}

//
// Endpoints
//

// CreateInteraction godoc
// @ID          createInteraction
// @Summary     Create an interaction request
// @Description Persists a pending interaction and pushes the decision prompt to the device. The record survives push failure in the fcm_failed state.
// @Tags        Interactions
// @Accept      json
// @Produce     json
//
// @Param       body body handlers.CreateInteractionRequest true "Interaction payload"
//
// @Success     201  {object} handlers.CreateInteractionResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing field or unknown type"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Failure     502  {object} handlers.ErrorResponse "Push delivery failed (record persisted)"
// @Router      /interactions [post]
func (h *Handlers) CreateInteraction(c *gin.Context) {
	var req CreateInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid JSON payload")
		return
	}

	rec, err := h.interactions.Create(c.Request.Context(), services.CreateInput{
		Destination:    req.Destination,
		Type:           req.Type,
		Title:          req.Title,
		Message:        req.Message,
		Metadata:       domain.JSONMap(req.Metadata),
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		failInteraction(c, err)
		return
	}

	ok(c, http.StatusCreated, CreateInteractionResponse{RequestID: rec.ID, Status: rec.Status})
}

// GetInteraction godoc
// @ID          getInteraction
// @Summary     Read an interaction
// @Description Returns the full record. A pending record past its deadline is transitioned to timeout before being returned.
// @Tags        Interactions
// @Produce     json
//
// @Param       id path string true "Request ID (UUID)" format(uuid)
//
// @Success     200  {object} handlers.InteractionResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown request ID"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /interactions/{id} [get]
func (h *Handlers) GetInteraction(c *gin.Context) {
	rec, err := h.interactions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		failInteraction(c, err)
		return
	}
	ok(c, http.StatusOK, toInteractionResponse(rec))
}

// RespondInteraction godoc
// @ID          respondInteraction
// @Summary     Record the device decision
// @Description Records approved/denied exactly once. Duplicates are rejected with the already-persisted status; late decisions leave the record in timeout.
// @Tags        Interactions
// @Accept      json
// @Produce     json
//
// @Param       id   path string true "Request ID (UUID)" format(uuid)
// @Param       body body handlers.RespondInteractionRequest true "Decision payload"
//
// @Success     200  {object} handlers.RespondInteractionResponse
// @Failure     400  {object} handlers.ErrorResponse "Invalid status"
// @Failure     404  {object} handlers.ErrorResponse "Unknown request ID"
// @Failure     409  {object} handlers.ErrorResponse "Already resolved"
// @Failure     410  {object} handlers.ErrorResponse "Deadline exceeded"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /interactions/{id}/respond [post]
func (h *Handlers) RespondInteraction(c *gin.Context) {
	var req RespondInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid JSON payload")
		return
	}

	err := h.interactions.Respond(c.Request.Context(), c.Param("id"), req.Status, domain.JSONMap(req.Response))
	if err != nil {
		failInteraction(c, err)
		return
	}

	ok(c, http.StatusOK, RespondInteractionResponse{Success: true})
}

// WaitInteraction godoc
// @ID          waitInteraction
// @Summary     Wait for an interaction to resolve
// @Description Blocks up to min(timeout_seconds, 60) seconds polling the record. Returns status "polling_timeout" when the budget runs out with the record still pending; the record is not mutated in that case.
// @Tags        Interactions
// @Accept      json
// @Produce     json
//
// @Param       id   path string true "Request ID (UUID)" format(uuid)
// @Param       body body handlers.WaitInteractionRequest false "Wait options"
//
// @Success     200  {object} handlers.WaitInteractionResponse
// @Failure     404  {object} handlers.ErrorResponse "Unknown request ID"
// @Failure     500  {object} handlers.ErrorResponse "Internal server error"
// @Router      /interactions/{id}/wait [post]
func (h *Handlers) WaitInteraction(c *gin.Context) {
	var req WaitInteractionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeInvalidArgument, "invalid JSON payload")
			return
		}
	}

	res, err := h.waits.Wait(c.Request.Context(), c.Param("id"), req.TimeoutSeconds)
	if err != nil {
		failInteraction(c, err)
		return
	}

	ok(c, http.StatusOK, WaitInteractionResponse{
		RequestID:   res.RequestID,
		Status:      res.Status,
		Response:    res.Response,
		RespondedAt: formatTime(res.RespondedAt),
	})
}

//
// Error translation and serialization helpers
//

// failInteraction maps service errors onto the HTTP error taxonomy.
func failInteraction(c *gin.Context, err error) {
	var missing *services.MissingFieldError
	var resolved *services.AlreadyResolvedError
	switch {
	case errors.As(err, &missing),
		errors.Is(err, services.ErrInvalidType),
		errors.Is(err, services.ErrInvalidRespondStatus),
		errors.Is(err, push.ErrInvalidPriority),
		errors.Is(err, push.ErrInvalidTTL):
		fail(c, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error())
	case errors.Is(err, services.ErrInteractionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "interaction not found")
	case errors.As(err, &resolved):
		fail(c, http.StatusConflict, ErrCodeFailedPrecondition, resolved.Error())
	case errors.Is(err, services.ErrDeadlineExceeded):
		fail(c, http.StatusGone, ErrCodeDeadlineExceeded, "interaction has expired")
	case errors.Is(err, services.ErrPushFailed):
		fail(c, http.StatusBadGateway, ErrCodePushFailed, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away mid-wait; 499-style close without a body write.
		c.Abort()
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// toInteractionResponse normalizes a record for the wire: timestamps become
// RFC 3339 text or null, nil maps stay null.
func toInteractionResponse(rec *domain.Interaction) InteractionResponse {
	created := rec.CreatedAt
	expires := rec.ExpiresAt
	return InteractionResponse{
		RequestID:   rec.ID,
		Destination: rec.Destination,
		Type:        rec.Type,
		Title:       rec.Title,
		Message:     rec.Message,
		Metadata:    rec.Metadata,
		Status:      rec.Status,
		Response:    rec.Response,
		CreatedAt:   formatTime(&created),
		RespondedAt: formatTime(rec.RespondedAt),
		ExpiresAt:   formatTime(&expires),
	}
}

// formatTime renders t as RFC 3339 UTC text, or nil for a null timestamp.
func formatTime(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
