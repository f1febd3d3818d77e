package tokenstore

import "errors"

var (
	// ErrNotFound indicates no tokens are stored for the user
	ErrNotFound = errors.New("tokenstore.not_found")

	// ErrExpired indicates the stored tokens are past their expiry
	ErrExpired = errors.New("tokenstore.expired")

	// ErrEncoding indicates the stored value could not be encoded or decoded
	ErrEncoding = errors.New("tokenstore.encoding_failed")

	// ErrFailedToParseConnString indicates an invalid Redis connection URL
	ErrFailedToParseConnString = errors.New("tokenstore.invalid_conn_string")

	// ErrRedisNotReady indicates the Redis server did not become reachable
	ErrRedisNotReady = errors.New("tokenstore.redis_not_ready")
)
