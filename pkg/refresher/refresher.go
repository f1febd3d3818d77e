package refresher

import (
	"context"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

// Refresher exchanges a refresh token for a fresh token pair
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (authstate.Tokens, error)
}

// Func adapts a plain function to the Refresher interface
type Func func(ctx context.Context, refreshToken string) (authstate.Tokens, error)

// Refresh calls the wrapped function
func (f Func) Refresh(ctx context.Context, refreshToken string) (authstate.Tokens, error) {
	return f(ctx, refreshToken)
}

// StaticRefresher always returns the same token pair or error. Useful in
// tests and wiring examples.
type StaticRefresher struct {
	Tokens authstate.Tokens
	Err    error
}

// Refresh returns the configured token pair or error
func (s StaticRefresher) Refresh(ctx context.Context, refreshToken string) (authstate.Tokens, error) {
	if s.Err != nil {
		return authstate.Tokens{}, s.Err
	}
	return s.Tokens, nil
}
