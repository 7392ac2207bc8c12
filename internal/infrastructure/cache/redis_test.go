package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "meeting-analyzer:")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "meeting:1:status", `{"stage":"transcribing"}`, time.Hour))
	assert.True(t, mr.Exists("meeting-analyzer:meeting:1:status"))

	v, ok, err := store.Get(ctx, "meeting:1:status")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"stage":"transcribing"}`, v)

	mr.FastForward(2 * time.Hour)
	_, ok, err = store.Get(ctx, "meeting:1:status")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	require.NoError(t, store.Delete(ctx, "k"))
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
