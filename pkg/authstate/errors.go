package authstate

import "errors"

var (
	// ErrInvalidTransition indicates the event is not legal in the current state
	ErrInvalidTransition = errors.New("authstate.invalid_transition")

	// ErrRefreshExhausted indicates the refresh retry budget ran out
	ErrRefreshExhausted = errors.New("authstate.refresh_exhausted")

	// ErrMachineClosed indicates the machine was destroyed
	ErrMachineClosed = errors.New("authstate.machine_closed")

	// ErrMissingCredentials indicates a login was reported without tokens or user
	ErrMissingCredentials = errors.New("authstate.missing_credentials")
)
