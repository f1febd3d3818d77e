package refresher

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/authkit/pkg/authstate"
	"github.com/dmitrymomot/authkit/pkg/logger"
)

// Runner drives a complete refresh cycle against a state machine: it is
// the caller-side retry loop the machine's retry budget was designed for.
type Runner struct {
	machine   *authstate.Machine
	refresher Refresher
	logger    *slog.Logger
}

// RunnerOption is a functional option for configuring the Runner
type RunnerOption func(*Runner)

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a runner for the given machine and refresher
func NewRunner(machine *authstate.Machine, refresher Refresher, opts ...RunnerOption) *Runner {
	r := &Runner{
		machine:   machine,
		refresher: refresher,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run moves the machine into refreshing, performs refresh attempts until
// one succeeds or the machine's retry budget is exhausted, and reports
// the outcome back to the machine. Between attempts it honors the
// machine's suggested backoff. On success the machine lands in
// authenticated; on exhaustion Run returns ErrRefreshExhausted and the
// machine lands in expired.
func (r *Runner) Run(ctx context.Context) (*authstate.Context, error) {
	snapshot := r.machine.Context()
	if snapshot.Tokens == nil || snapshot.Tokens.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	current, err := r.machine.RefreshToken(ctx, nil)
	if err != nil {
		return nil, err
	}

	for {
		tokens, refreshErr := r.refresher.Refresh(ctx, current.Tokens.RefreshToken)
		if refreshErr == nil {
			if tokens.RefreshToken == "" {
				tokens.RefreshToken = current.Tokens.RefreshToken
			}

			user := authstate.User{}
			if current.User != nil {
				user = *current.User
			}
			return r.machine.LoginSuccess(ctx, tokens, user)
		}

		r.logger.Warn("refresh attempt failed",
			slog.Int("retry_count", current.RetryCount),
			logger.Error(refreshErr))

		current, err = r.machine.TokenExpired(ctx, refreshErr)
		if err != nil {
			// Terminal: budget exhausted or the machine moved on.
			return nil, err
		}

		if err := wait(ctx, current.RetryBackoff); err != nil {
			return nil, err
		}
	}
}

// RunAsync starts a refresh cycle in the background and returns a Future
// that resolves when the cycle finishes. Callers that need the browser
// promise shape use this; callers that can block call Run directly.
func (r *Runner) RunAsync(ctx context.Context) *Future {
	f := &Future{done: make(chan struct{})}

	go func() {
		if err := ctx.Err(); err != nil {
			f.resolve(nil, err)
			return
		}
		f.resolve(r.Run(ctx))
	}()

	return f
}

// wait sleeps for the given duration unless the context ends first.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
