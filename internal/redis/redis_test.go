package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDRESS")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDRESS not set")
	}
	s := NewStore(addr, "", "")
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Ping(context.Background()))
	return s
}

func TestStore_GetSetIncr(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	key := fmt.Sprintf("salawat-test-%d", time.Now().UnixNano())

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.Set(ctx, key, "41"))
	n, err = s.Incr(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)

	v, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "42", v)

	require.NoError(t, s.rdb.Del(ctx, key).Err())
}
