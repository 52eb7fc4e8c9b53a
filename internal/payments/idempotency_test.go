package payments

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisIdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisIdempotencyStore(client), mr
}

func TestRedisReserve_FirstCallerWins(t *testing.T) {
	store, _ := newRedisStore(t)

	ok, err := store.Reserve(t.Context(), "patient-1:appt-1", time.Minute)
	require.NoError(t, err)
	require.True(t, ok, "first reserve should win")

	ok, err = store.Reserve(t.Context(), "patient-1:appt-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second reserve should lose")

	// A different appointment is an independent key.
	ok, err = store.Reserve(t.Context(), "patient-1:appt-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "unrelated key should not be blocked")
}

func TestRedisReserve_ReleaseFreesKey(t *testing.T) {
	store, _ := newRedisStore(t)

	ok, err := store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Release(t.Context(), "k"))

	ok, err = store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "key should be reusable after release")
}

func TestRedisReserve_TTLExpires(t *testing.T) {
	store, mr := newRedisStore(t)

	ok, err := store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "key should be reusable after TTL")
}

func TestInMemoryReserve(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	ok, err := store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	require.True(t, ok, "first reserve should win")

	ok, err = store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "second reserve should lose")

	require.NoError(t, store.Release(t.Context(), "k"))

	ok, err = store.Reserve(t.Context(), "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok, "key should be reusable after release")
}
