package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	scrapeerrors "travelscraper/offerworker/pkg/errors"
)

// ErrHeld is returned when another run holds the lock
var ErrHeld = errors.New("run lock is held")

// Locker guards collection runs so that at most one is active
type Locker interface {
	// Acquire takes the lock or returns ErrHeld. The returned function
	// releases it.
	Acquire(ctx context.Context) (release func(), err error)
}

// releaseScript deletes the key only while it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a lock shared by every process using the same Redis
type RedisLocker struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisLocker creates a lock on key; the lock expires after ttl if its
// holder dies
func NewRedisLocker(client *redis.Client, key string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, key: key, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, scrapeerrors.New(scrapeerrors.ErrorTypeTransport, "", "acquire run lock", err)
	}
	if !ok {
		return nil, ErrHeld
	}

	return func() {
		// the run context may be cancelled by now
		releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		releaseScript.Run(releaseCtx, l.client, []string{l.key}, token)
	}, nil
}

// LocalLocker guards runs within one process
type LocalLocker struct {
	mu   sync.Mutex
	held bool
}

// NewLocalLocker creates an in-process lock
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{}
}

func (l *LocalLocker) Acquire(ctx context.Context) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held {
		return nil, ErrHeld
	}
	l.held = true

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			l.held = false
			l.mu.Unlock()
		})
	}, nil
}
