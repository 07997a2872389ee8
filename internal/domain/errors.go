package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// record does not exist (or has been soft-deleted).
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails field validation (e.g. missing
// required field, return date before departure date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the acting user fails an ownership check.
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an optimistic status update loses a race with
// a concurrent writer. The losing call must not silently overwrite.
// Handlers should map this to HTTP 409.
var ErrConflict = errors.New("concurrent modification")

// ruleError is a business-rule rejection: an expected, user-facing outcome
// of the status workflow, never a system error. Every ruleError also matches
// ErrValidation under errors.Is, so the boundary can map the whole family to
// 422 while tests assert the precise rule that fired.
type ruleError string

func (e ruleError) Error() string { return string(e) }

func (e ruleError) Is(target error) bool { return target == ErrValidation }

// Business-rule rejections raised by the status transition engine and the
// repository's uniqueness constraint. Each is its own sentinel; all of them
// additionally satisfy errors.Is(err, ErrValidation).
var (
	// ErrDuplicateOrderCode fires when the order code is already in use by a
	// non-deleted request.
	ErrDuplicateOrderCode = ruleError("order code already in use")

	// ErrSelfApproval fires when the owner of a request tries to change its
	// status. Checked before every other transition rule.
	ErrSelfApproval = ruleError("owner cannot change the status of their own request")

	// ErrInvalidTargetStatus fires when the requested target is anything other
	// than approved or canceled.
	ErrInvalidTargetStatus = ruleError(`target status must be "approved" or "canceled"`)

	// ErrAlreadyInStatus fires when the request is already in the target status.
	ErrAlreadyInStatus = ruleError("request is already in the requested status")

	// ErrTerminalStatus fires on any attempt to transition out of canceled.
	ErrTerminalStatus = ruleError("canceled requests cannot change status")

	// ErrPastDeparture fires when canceling an approved request whose
	// departure is already in the past.
	ErrPastDeparture = ruleError("approved requests with a past departure cannot be canceled")
)
