// Package tokenstore persists session token pairs for the authentication
// state machine's collaborators. The machine itself never performs I/O;
// callers load tokens from a Store before initializing the machine and
// save refreshed tokens after successful transitions.
//
// The package is storage-agnostic: any datastore satisfying the Store
// interface can be plugged in. A concurrent in-memory implementation and
// a Redis-backed one ship out of the box.
//
// # Usage
//
//	store := tokenstore.NewMemoryStore(5 * time.Minute)
//	defer store.Close()
//
//	if err := store.Save(ctx, userID, tokens); err != nil { ... }
//	tokens, err := store.Load(ctx, userID)
//
// Redis:
//
//	client, err := tokenstore.Connect(ctx, cfg)
//	store := tokenstore.NewRedisStore(client)
//
// Expired token pairs are evicted lazily on Load and, for the memory
// store, by a periodic cleanup goroutine. The Redis store delegates
// eviction to key TTLs derived from the token expiry.
package tokenstore
