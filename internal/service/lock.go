package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyedMutex is an in-process lock per key. Entries are dropped once no
// goroutine holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock blocks until key is free or ctx is done.
func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedEntry{ch: make(chan struct{}, 1)}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	select {
	case entry.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(key, entry)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.ch
			k.release(key, entry)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, entry *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
}

// held reports how many keys currently have holders or waiters.
func (k *KeyedMutex) held() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

// releaseScript deletes the lock only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a lock shared by every process using the same Redis. The TTL
// bounds how long a crashed holder can block others.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	poll   time.Duration
	logger *zap.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisLocker{client: client, prefix: "fridgechef:lock:", ttl: ttl, poll: 50 * time.Millisecond, logger: logger}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + key
	token := uuid.New().String()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
				l.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}

// ChainLocker acquires each locker in order and releases them in reverse.
type ChainLocker []NameLocker

func (c ChainLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlocks := make([]func(), 0, len(c))
	releaseAll := func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
	for _, locker := range c {
		unlock, err := locker.Lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		unlocks = append(unlocks, unlock)
	}
	return releaseAll, nil
}
