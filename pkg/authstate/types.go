package authstate

import (
	"time"

	"github.com/google/uuid"
)

// State represents the authentication state of the current session.
// Exactly one state is active at any instant.
type State string

const (
	StateInitializing    State = "initializing"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
	StateRefreshing      State = "refreshing"
	StateExpired         State = "expired"
	StateOffline         State = "offline"
	StateError           State = "error"
)

// Event triggers a state transition. Events outside this set are unknown
// to the transition table and always refused.
type Event string

const (
	EventInitialize     Event = "INITIALIZE"
	EventLoginSuccess   Event = "LOGIN_SUCCESS"
	EventRefreshToken   Event = "REFRESH_TOKEN"
	EventTokenExpired   Event = "TOKEN_EXPIRED"
	EventNetworkError   Event = "NETWORK_ERROR"
	EventLogout         Event = "LOGOUT"
	EventClearError     Event = "CLEAR_ERROR"
	EventMemoryPressure Event = "MEMORY_PRESSURE"
	EventStorageError   Event = "STORAGE_ERROR"
)

// User identifies the signed-in account attached to the session.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email,omitempty"`
	Name  string    `json:"name,omitempty"`
}

// Tokens holds the session credential pair. The machine never validates
// or decodes them; it only carries them through the context.
type Tokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

// IsExpired reports whether the access token is past its expiry.
// Tokens without an expiry never expire from the machine's perspective.
func (t Tokens) IsExpired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// Context is the mutable payload carried alongside the current state.
// It is read and written only inside the serializer's drain loop; callers
// always receive copies.
type Context struct {
	User           *User         `json:"user,omitempty"`
	Tokens         *Tokens       `json:"tokens,omitempty"`
	LastError      string        `json:"last_error,omitempty"`
	RetryCount     int           `json:"retry_count"`
	RetryBackoff   time.Duration `json:"retry_backoff,omitempty"`
	LastRefreshAt  time.Time     `json:"last_refresh_at,omitempty"`
	MemoryPressure bool          `json:"memory_pressure,omitempty"`
}

// clone returns a deep copy so snapshots never alias machine-owned memory.
func (c Context) clone() Context {
	out := c
	if c.User != nil {
		u := *c.User
		out.User = &u
	}
	if c.Tokens != nil {
		t := *c.Tokens
		out.Tokens = &t
	}
	return out
}

// TransitionRecord is an immutable log entry describing one accepted
// transition. A bounded history of records is retained for diagnostics.
type TransitionRecord struct {
	From    State     `json:"from"`
	To      State     `json:"to"`
	Event   Event     `json:"event"`
	At      time.Time `json:"at"`
	Context Context   `json:"context"`
}

// StateChange is delivered to subscribers after each accepted transition.
type StateChange struct {
	From    State   `json:"from"`
	To      State   `json:"to"`
	Event   Event   `json:"event"`
	Context Context `json:"context"`
}

// RecoveryAttempt is delivered to recovery subscribers for each scheduled
// probe after a memory-pressure degradation.
type RecoveryAttempt struct {
	Attempt   int     `json:"attempt"`
	Remaining int     `json:"remaining"`
	Context   Context `json:"context"`
}

// delta is the partial context update carried by a queued operation.
type delta struct {
	user   *User
	tokens *Tokens
	err    error
}
