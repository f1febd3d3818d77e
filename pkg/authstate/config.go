package authstate

import "time"

// Config holds machine configuration
type Config struct {
	// MaxRetries is the refresh retry budget before refreshing gives up
	MaxRetries int `env:"AUTHSTATE_MAX_RETRIES" envDefault:"3"`

	// HistoryLimit bounds the retained transition history
	HistoryLimit int `env:"AUTHSTATE_HISTORY_LIMIT" envDefault:"50"`

	// SweepInterval is the safety-net interval for re-draining the queue
	SweepInterval time.Duration `env:"AUTHSTATE_SWEEP_INTERVAL" envDefault:"60s"`

	// RecoveryAttempts bounds memory-pressure recovery probes
	RecoveryAttempts int `env:"AUTHSTATE_RECOVERY_ATTEMPTS" envDefault:"3"`

	// RecoveryInterval is the delay between consecutive recovery probes
	RecoveryInterval time.Duration `env:"AUTHSTATE_RECOVERY_INTERVAL" envDefault:"5s"`

	RetryBackoffBase time.Duration `env:"AUTHSTATE_RETRY_BACKOFF_BASE" envDefault:"1s"`
	RetryBackoffCap  time.Duration `env:"AUTHSTATE_RETRY_BACKOFF_CAP" envDefault:"30s"`
}

// DefaultConfig returns default machine configuration
func DefaultConfig() Config {
	return Config{
		MaxRetries:       3,
		HistoryLimit:     50,
		SweepInterval:    60 * time.Second,
		RecoveryAttempts: 3,
		RecoveryInterval: 5 * time.Second,
		RetryBackoffBase: time.Second,
		RetryBackoffCap:  30 * time.Second,
	}
}

// backoff returns the capped exponential delay suggested before the given
// retry attempt (1-based). The machine never sleeps itself; the value is
// surfaced through Context.RetryBackoff for callers to honor.
func (c Config) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := c.RetryBackoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= c.RetryBackoffCap {
			return c.RetryBackoffCap
		}
	}
	if d > c.RetryBackoffCap {
		return c.RetryBackoffCap
	}
	return d
}

// NewFromConfig creates a new Machine from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Machine {
	configOpts := []Option{WithConfig(cfg)}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
