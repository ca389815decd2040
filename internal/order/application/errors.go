package application

import "errors"

// ErrSubmissionInFlight is returned while a previous submission's
// notification is still visible; the submit action is disabled until the
// cycle completes.
var ErrSubmissionInFlight = errors.New("submission already in progress")

// ValidationError covers a missing required field or an empty cart. It is
// recovered locally: surfaced as a dismissible notification, the submission
// is not attempted and the user may retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

// DispatchError wraps a failure to hand the message off to WhatsApp. The
// order was not sent and nothing was persisted; the user may retry.
type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return "whatsapp dispatch failed: " + e.Err.Error()
}

func (e *DispatchError) Unwrap() error { return e.Err }
