package store

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormatov/chatkeeper/types"
)

func TestMemorySessionStoreRoundTrip(t *testing.T) {
	s := NewMemorySessionStore()

	op, err := s.GetPending(42)
	require.NoError(t, err)
	assert.Nil(t, op, "no pending op by default")

	require.NoError(t, s.SetPending(42, &types.PendingOp{
		Kind:     types.PendingEditRating,
		TargetID: "100",
	}))

	op, err = s.GetPending(42)
	require.NoError(t, err)
	require.NotNil(t, op)
	assert.Equal(t, types.PendingEditRating, op.Kind)
	assert.Equal(t, "100", op.TargetID)

	// other users are unaffected
	other, err := s.GetPending(43)
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, s.ClearPending(42))
	op, err = s.GetPending(42)
	require.NoError(t, err)
	assert.Nil(t, op)
}

func TestMemorySessionStoreCopiesValues(t *testing.T) {
	s := NewMemorySessionStore()

	src := &types.PendingOp{Kind: types.PendingSearchUser}
	require.NoError(t, s.SetPending(1, src))
	src.Kind = types.PendingRenameChat

	got, err := s.GetPending(1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, types.PendingSearchUser, got.Kind, "stored op must not alias the caller's value")

	got.TargetID = "mutated"
	again, err := s.GetPending(1)
	require.NoError(t, err)
	assert.Empty(t, again.TargetID, "returned op must not alias the stored value")
}

func TestRedisSessionStoreSurfacesOutage(t *testing.T) {
	// an unreachable Redis must come back as an error, not as "no pending op"
	rc := &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 100 * time.Millisecond,
			ReadTimeout: 100 * time.Millisecond,
			MaxRetries:  -1,
		}),
		ctx:    context.Background(),
		prefix: "test",
	}
	s := NewRedisSessionStore(rc, 1)

	op, err := s.GetPending(42)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
	assert.Nil(t, op)
}

func TestSessionStoreInterfaces(t *testing.T) {
	var _ types.SessionStore = NewMemorySessionStore()
	var _ types.SessionStore = (*RedisSessionStore)(nil)
}
