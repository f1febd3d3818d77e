package refresher

import "errors"

var (
	// ErrNoRefreshToken indicates the machine context carries no refresh token
	ErrNoRefreshToken = errors.New("refresher.no_refresh_token")

	// ErrRefreshFailed indicates the refresh exchange failed
	ErrRefreshFailed = errors.New("refresher.refresh_failed")

	// ErrAwaitTimeout indicates a Future wait expired before the refresh cycle resolved
	ErrAwaitTimeout = errors.New("refresher.await_timeout")
)
