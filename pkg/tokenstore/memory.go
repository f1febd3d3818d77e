package tokenstore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

// MemoryStore implements Store using in-memory storage
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[uuid.UUID]authstate.Tokens
	ticker *time.Ticker
	done   chan struct{}
}

// NewMemoryStore creates a new in-memory token store. A positive cleanup
// interval starts a background sweep of expired pairs; 0 disables it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		tokens: make(map[uuid.UUID]authstate.Tokens),
		done:   make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Save stores the token pair for the user, replacing any previous one
func (m *MemoryStore) Save(ctx context.Context, userID uuid.UUID, tokens authstate.Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tokens[userID] = tokens
	return nil
}

// Load retrieves the token pair for the user
func (m *MemoryStore) Load(ctx context.Context, userID uuid.UUID) (authstate.Tokens, error) {
	m.mu.RLock()
	tokens, exists := m.tokens[userID]
	m.mu.RUnlock()

	if !exists {
		return authstate.Tokens{}, ErrNotFound
	}

	if tokens.IsExpired() {
		m.mu.Lock()
		delete(m.tokens, userID)
		m.mu.Unlock()
		return authstate.Tokens{}, ErrExpired
	}

	return tokens, nil
}

// Delete removes the token pair for the user
func (m *MemoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, userID)
	return nil
}

// DeleteExpired removes all token pairs past their expiry
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, tokens := range m.tokens {
		if tokens.IsExpired() {
			delete(m.tokens, userID)
		}
	}

	return nil
}

// Len returns the number of stored token pairs
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}

// Close stops the cleanup goroutine
func (m *MemoryStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
	return nil
}

// cleanupLoop runs periodic cleanup of expired token pairs
func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}
