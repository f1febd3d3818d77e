package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

// Connect establishes a connection to a Redis server using the provided
// configuration, retrying up to cfg.RetryAttempts times with
// cfg.RetryInterval between attempts.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseConnString, err)
	}

	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, ErrRedisNotReady
}

// RedisStore implements Store backed by Redis. Eviction of expired pairs
// is delegated to key TTLs derived from the token expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption is a functional option for configuring the RedisStore
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the key namespace used for stored tokens
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed token store
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: DefaultConfig().KeyPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Save stores the token pair for the user, replacing any previous one.
// Tokens with an expiry get a matching TTL; tokens without one persist
// until deleted.
func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, tokens authstate.Tokens) error {
	payload, err := json.Marshal(tokens)
	if err != nil {
		return errors.Join(ErrEncoding, err)
	}

	var ttl time.Duration
	if !tokens.ExpiresAt.IsZero() {
		ttl = time.Until(tokens.ExpiresAt)
		if ttl <= 0 {
			return ErrExpired
		}
	}

	return s.client.Set(ctx, s.key(userID), payload, ttl).Err()
}

// Load retrieves the token pair for the user
func (s *RedisStore) Load(ctx context.Context, userID uuid.UUID) (authstate.Tokens, error) {
	payload, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return authstate.Tokens{}, ErrNotFound
		}
		return authstate.Tokens{}, err
	}

	var tokens authstate.Tokens
	if err := json.Unmarshal(payload, &tokens); err != nil {
		return authstate.Tokens{}, errors.Join(ErrEncoding, err)
	}

	if tokens.IsExpired() {
		_ = s.client.Del(ctx, s.key(userID)).Err()
		return authstate.Tokens{}, ErrExpired
	}

	return tokens, nil
}

// Delete removes the token pair for the user
func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, s.key(userID)).Err()
}

// DeleteExpired is a no-op for Redis: key TTLs already evict expired pairs.
func (s *RedisStore) DeleteExpired(ctx context.Context) error {
	return nil
}

func (s *RedisStore) key(userID uuid.UUID) string {
	return s.prefix + userID.String()
}
