package intentstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tabwise/epos/internal/clock"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	err := store.Put(ctx, "secret_abc", "pi_123", DefaultTTL)
	assert.NoError(t, err)

	id, ok, err := store.Get(ctx, "secret_abc")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pi_123", id)

	assert.NoError(t, store.Delete(ctx, "secret_abc"))

	_, ok, err = store.Get(ctx, "secret_abc")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(ctx, "secret_abc"))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	assert.NoError(t, store.Put(ctx, "secret_abc", "pi_123", DefaultTTL))

	clk.Advance(899 * time.Second)
	_, ok, err := store.Get(ctx, "secret_abc")
	assert.NoError(t, err)
	assert.True(t, ok)

	clk.Advance(2 * time.Second)
	_, ok, err = store.Get(ctx, "secret_abc")
	assert.NoError(t, err)
	assert.False(t, ok)

	// Expired entries are invisible to reverse lookup too.
	_, ok, err = store.ReverseLookup(ctx, "pi_123")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreOverwriteRefreshesTTL(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	assert.NoError(t, store.Put(ctx, "secret_abc", "pi_123", DefaultTTL))
	clk.Advance(800 * time.Second)
	assert.NoError(t, store.Put(ctx, "secret_abc", "pi_456", DefaultTTL))
	clk.Advance(800 * time.Second)

	id, ok, err := store.Get(ctx, "secret_abc")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "pi_456", id)
}

func TestMemoryStoreReverseLookup(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryStore(clk)

	assert.NoError(t, store.Put(ctx, "secret_a", "pi_a", DefaultTTL))
	assert.NoError(t, store.Put(ctx, "secret_b", "pi_b", DefaultTTL))

	secret, ok, err := store.ReverseLookup(ctx, "pi_b")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "secret_b", secret)

	_, ok, err = store.ReverseLookup(ctx, "pi_missing")
	assert.NoError(t, err)
	assert.False(t, ok)
}
