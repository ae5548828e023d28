// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes give
// clients a stable, machine-readable error taxonomy that supplements the
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - The interaction lifecycle codes mirror the condition taxonomy of the
//     coordination protocol: invalid_argument, not_found,
//     failed_precondition, deadline_exceeded, internal_error.
//   - push_failed marks a create whose record was persisted but whose push
//     trigger could not be delivered; the record is queryable in the
//     fcm_failed state.
//   - All error responses include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "failed_precondition",
//	  "message": "interaction already approved"
//	}
package handlers

const (
	ErrCodeInvalidArgument    = "invalid_argument"
	ErrCodeNotFound           = "not_found"
	ErrCodeFailedPrecondition = "failed_precondition"
	ErrCodeDeadlineExceeded   = "deadline_exceeded"
	ErrCodeInternal           = "internal_error"
	ErrCodePushFailed         = "push_failed"
	ErrCodeRateLimited        = "too_many_requests"
	ErrCodeMethodNotAllowed   = "method_not_allowed"
)
