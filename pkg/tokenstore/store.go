package tokenstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authkit/pkg/authstate"
)

// Store defines the interface for token persistence
type Store interface {
	// Save stores the token pair for the user, replacing any previous one
	Save(ctx context.Context, userID uuid.UUID, tokens authstate.Tokens) error

	// Load retrieves the token pair for the user
	Load(ctx context.Context, userID uuid.UUID) (authstate.Tokens, error)

	// Delete removes the token pair for the user
	Delete(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired removes all token pairs past their expiry
	DeleteExpired(ctx context.Context) error
}
