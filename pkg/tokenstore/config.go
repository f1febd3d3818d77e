package tokenstore

import "time"

// Config holds Redis connection configuration
type Config struct {
	// ConnectionURL in the format "redis://:password@localhost:6379/0"
	ConnectionURL string `env:"TOKENSTORE_REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// RetryAttempts is the number of connection attempts before giving up
	RetryAttempts int `env:"TOKENSTORE_REDIS_RETRY_ATTEMPTS" envDefault:"3"`

	// RetryInterval is the delay between connection attempts
	RetryInterval time.Duration `env:"TOKENSTORE_REDIS_RETRY_INTERVAL" envDefault:"5s"`

	// ConnectTimeout bounds the whole connection phase
	ConnectTimeout time.Duration `env:"TOKENSTORE_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// KeyPrefix namespaces token keys in the shared database
	KeyPrefix string `env:"TOKENSTORE_KEY_PREFIX" envDefault:"authkit:tokens:"`
}

// DefaultConfig returns default Redis connection configuration
func DefaultConfig() Config {
	return Config{
		ConnectionURL:  "redis://localhost:6379/0",
		RetryAttempts:  3,
		RetryInterval:  5 * time.Second,
		ConnectTimeout: 30 * time.Second,
		KeyPrefix:      "authkit:tokens:",
	}
}
