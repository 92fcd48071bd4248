package guard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const defaultPrefix = "facade-admin:lock:"

// releaseScript deletes the lock only if it still carries our token, so an
// expired lock taken over by another replica is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// renewScript pushes the expiry forward only while the lock still carries our
// token.
var renewScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a Guard shared by every process talking to the same Redis. Locks
// expire after ttl so a crashed holder cannot block a key forever; a live
// holder renews its lock every ttl/3 until it releases it.
type Redis struct {
	client  redis.UniversalClient
	ttl     time.Duration
	prefix  string
	timeout time.Duration
	log     *logrus.Entry
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(addr, password string, db int, ttl time.Duration, log *logrus.Entry) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return NewRedisWithClient(client, ttl, log), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client redis.UniversalClient, ttl time.Duration, log *logrus.Entry) *Redis {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Redis{
		client:  client,
		ttl:     ttl,
		prefix:  defaultPrefix,
		timeout: time.Second,
		log:     log,
	}
}

// Key returns the Redis key used for key.
func (r *Redis) Key(key string) string {
	return r.prefix + key
}

// Acquire implements Guard with SET NX PX.
func (r *Redis) Acquire(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	redisKey := r.Key(key)

	ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, ErrBusy
	}

	stop := make(chan struct{})
	renewed := make(chan struct{})
	go r.renew(redisKey, token, stop, renewed)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-renewed
			// the caller's context may already be done
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			defer cancel()
			if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil && r.log != nil {
				r.log.WithError(err).WithField("key", redisKey).Warn("Failed to release lock")
			}
		})
	}, nil
}

// renew keeps the lock alive until stop is closed or the lock is lost.
func (r *Redis) renew(redisKey, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		n, err := renewScript.Run(ctx, r.client, []string{redisKey}, token, r.ttl.Milliseconds()).Int64()
		cancel()
		switch {
		case err != nil:
			if r.log != nil {
				r.log.WithError(err).WithField("key", redisKey).Warn("Failed to renew lock")
			}
		case n == 0:
			if r.log != nil {
				r.log.WithField("key", redisKey).Error("Lock lost before release")
			}
			return
		}
	}
}

// Close closes the Redis client.
func (r *Redis) Close() error {
	return r.client.Close()
}
