package authstate

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the Machine
type Option func(*Machine)

// WithConfig sets custom configuration
func WithConfig(cfg Config) Option {
	return func(m *Machine) {
		m.cfg = cfg
	}
}

// WithLogger sets a custom logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source used for transition records and refresh
// timestamps. Intended for tests.
func WithClock(clock func() time.Time) Option {
	return func(m *Machine) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// WithMaxRetries sets the refresh retry budget
func WithMaxRetries(n int) Option {
	return func(m *Machine) {
		m.cfg.MaxRetries = n
	}
}

// WithHistoryLimit bounds the retained transition history
func WithHistoryLimit(n int) Option {
	return func(m *Machine) {
		m.cfg.HistoryLimit = n
	}
}

// WithSweepInterval sets the safety-net drain interval
func WithSweepInterval(interval time.Duration) Option {
	return func(m *Machine) {
		m.cfg.SweepInterval = interval
	}
}

// WithRecoverySchedule sets the memory-pressure recovery probe budget and
// the delay between probes
func WithRecoverySchedule(attempts int, interval time.Duration) Option {
	return func(m *Machine) {
		m.cfg.RecoveryAttempts = attempts
		m.cfg.RecoveryInterval = interval
	}
}

// WithRetryBackoff sets the base and cap for the suggested inter-attempt
// refresh backoff
func WithRetryBackoff(base, cap time.Duration) Option {
	return func(m *Machine) {
		m.cfg.RetryBackoffBase = base
		m.cfg.RetryBackoffCap = cap
	}
}
