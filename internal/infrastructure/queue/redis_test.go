package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server when INVOICING_TEST_REDIS_ADDR is set, e.g. localhost:6379
func TestRedisBackend_PushPop(t *testing.T) {
	addr := os.Getenv("INVOICING_TEST_REDIS_ADDR")
	if testing.Short() || addr == "" {
		t.Skip("Redis not available")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	backend := NewRedisBackendWithClient(client, "invoicing:test:", uuid.NewString())
	defer func() {
		_ = client.Del(context.Background(), backend.Key()).Err()
		_ = backend.Close()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, err := NewJob("greet", greeting{Name: "first"}, "", 0)
	require.NoError(t, err)
	second, err := NewJob("greet", greeting{Name: "second"}, "", 0)
	require.NoError(t, err)

	require.NoError(t, backend.Push(ctx, first))
	require.NoError(t, backend.Push(ctx, second))

	n, err := backend.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := backend.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)

	got, err = backend.Pop(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	short, stop := context.WithTimeout(ctx, 100*time.Millisecond)
	defer stop()
	_, err = backend.Pop(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
