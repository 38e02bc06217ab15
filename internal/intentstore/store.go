// Package intentstore maps payment client secrets to internal intent
// ids. The mapping is deliberately ephemeral: a client secret is a
// bearer credential for a short-lived transaction, and the TTL bounds
// both the exposure window and memory growth without explicit cleanup.
package intentstore

import (
	"context"
	"time"
)

const (
	// KeyPrefix namespaces secret keys in the shared store.
	KeyPrefix = "payment_secret:"

	// DefaultTTL matches the 15 minute lifetime of a client secret.
	DefaultTTL = 900 * time.Second
)

// Store is the secret → intent id mapping. Get makes no distinction
// between an expired entry and one that never existed. All single-key
// operations are safe for concurrent callers.
type Store interface {
	// Put stores the mapping, overwriting any existing entry for the
	// secret with a fresh TTL.
	Put(ctx context.Context, secret, intentID string, ttl time.Duration) error
	// Get returns the intent id for a live secret.
	Get(ctx context.Context, secret string) (string, bool, error)
	// Delete removes the mapping if present, no-op otherwise.
	Delete(ctx context.Context, secret string) error
	// ReverseLookup finds the secret for an intent id by scanning all
	// live entries. O(n) in outstanding intents, which stays small and
	// bounded by the TTL.
	ReverseLookup(ctx context.Context, intentID string) (string, bool, error)
}
