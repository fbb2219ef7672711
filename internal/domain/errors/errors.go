package errors

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrUnknownStatus      = errors.New("unknown order status")
	ErrActionNotPermitted = errors.New("action not permitted in current state")
	ErrActionInFlight     = errors.New("another action is in flight for this order")
	ErrReviewUnavailable  = errors.New("review is not available for this order")
	ErrSessionClosed      = errors.New("order session closed")
)

// NetworkError reports a transient connectivity failure or an upstream outage.
type NetworkError struct {
	Op         string
	Err        error
	RetryAfter time.Duration
}

func (e *NetworkError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: network error: %v (retry after %s)", e.Op, e.Err, e.RetryAfter)
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AuthError means the upstream rejected the viewer credential. Refreshing it
// is the job of the auth collaborator, not of the desk.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: unauthorized: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ConflictError is returned when the server rejects an action because its state
// diverged from what the client assumed.
type ConflictError struct {
	OrderID string
	Op      string
	Reason  string
}

func (e *ConflictError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s: order %s: state conflict", e.Op, e.OrderID)
	}
	return fmt.Sprintf("%s: order %s: state conflict: %s", e.Op, e.OrderID, e.Reason)
}

// ValidationError describes malformed input caught before dispatch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsRecoverable reports whether err should be answered with a reconciliation
// refetch rather than only an alert.
func IsRecoverable(err error) bool {
	var netErr *NetworkError
	var conflict *ConflictError
	return errors.As(err, &netErr) || errors.As(err, &conflict)
}
