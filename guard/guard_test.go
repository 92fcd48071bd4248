package guard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Guard = (*Memory)(nil)
	_ Guard = (*Redis)(nil)
)

func TestMemoryRejectsSecondHolder(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()

	release, err := g.Acquire(ctx, "project:p1")
	require.NoError(t, err)
	assert.True(t, g.Held("project:p1"))

	_, err = g.Acquire(ctx, "project:p1")
	assert.ErrorIs(t, err, ErrBusy)

	other, err := g.Acquire(ctx, "project:p2")
	require.NoError(t, err)
	other()

	release()
	release()
	assert.False(t, g.Held("project:p1"))

	again, err := g.Acquire(ctx, "project:p1")
	require.NoError(t, err)
	again()
}

func TestMemoryOnlyOneWinner(t *testing.T) {
	g := NewMemory()
	var wins int32
	var wg sync.WaitGroup

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := g.Acquire(context.Background(), "same"); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins)
}

func TestMemoryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory().Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewRedisFailsWithoutServer(t *testing.T) {
	_, err := NewRedis("127.0.0.1:1", "", 0, time.Minute, nil)
	assert.Error(t, err)
}

func TestRedisKeyAndDefaults(t *testing.T) {
	r := NewRedisWithClient(nil, 0, nil)
	assert.Equal(t, "facade-admin:lock:project:p1", r.Key("project:p1"))
	assert.Equal(t, 2*time.Minute, r.ttl)
}

func newTestRedis(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	g := NewRedisWithClient(client, ttl, nil)
	t.Cleanup(func() { _ = g.Close() })
	return g, mr
}

func TestRedisRejectsSecondHolder(t *testing.T) {
	g, mr := newTestRedis(t, time.Minute)
	ctx := context.Background()

	release, err := g.Acquire(ctx, "project:p1")
	require.NoError(t, err)
	assert.True(t, mr.Exists(g.Key("project:p1")))
	assert.Equal(t, time.Minute, mr.TTL(g.Key("project:p1")))

	_, err = g.Acquire(ctx, "project:p1")
	assert.ErrorIs(t, err, ErrBusy)

	release()
	release()
	assert.False(t, mr.Exists(g.Key("project:p1")))

	again, err := g.Acquire(ctx, "project:p1")
	require.NoError(t, err)
	again()
}

func TestRedisReleaseKeepsForeignLock(t *testing.T) {
	g, mr := newTestRedis(t, time.Minute)
	key := g.Key("project:p1")

	release, err := g.Acquire(context.Background(), "project:p1")
	require.NoError(t, err)

	// the lock expired and another process took it
	require.NoError(t, mr.Set(key, "other-holder"))
	release()

	got, err := mr.Get(key)
	require.NoError(t, err)
	assert.Equal(t, "other-holder", got)
}

func TestRedisRenewsWhileHeld(t *testing.T) {
	ttl := 300 * time.Millisecond
	g, mr := newTestRedis(t, ttl)
	key := g.Key("project:p1")

	release, err := g.Acquire(context.Background(), "project:p1")
	require.NoError(t, err)
	defer release()

	mr.FastForward(200 * time.Millisecond)
	require.True(t, mr.Exists(key))
	assert.Eventually(t, func() bool {
		return mr.TTL(key) > 200*time.Millisecond
	}, 2*time.Second, 20*time.Millisecond, "the holder must push the expiry forward")
}

func TestRedisStopsRenewingAfterRelease(t *testing.T) {
	ttl := 150 * time.Millisecond
	g, mr := newTestRedis(t, ttl)
	key := g.Key("project:p1")

	release, err := g.Acquire(context.Background(), "project:p1")
	require.NoError(t, err)
	release()

	// a new holder's lock must not be extended by the old renewal loop
	require.NoError(t, mr.Set(key, "next-holder"))
	mr.SetTTL(key, time.Second)
	time.Sleep(3 * ttl)
	assert.Equal(t, time.Second, mr.TTL(key))
}
