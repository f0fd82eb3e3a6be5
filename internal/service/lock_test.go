package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fridgechef/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexExclusion(t *testing.T) {
	locker := NewKeyedMutex()
	var inside, maxInside int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "recipe:김치볶음밥")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, locker.held())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	locker := NewKeyedMutex()
	unlockA, err := locker.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := locker.Lock(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 2, locker.held())

	unlockA()
	unlockA()
	unlockB()
	assert.Equal(t, 0, locker.held())
}

func TestKeyedMutexContextCancel(t *testing.T) {
	locker := NewKeyedMutex()
	unlock, err := locker.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, locker.held())

	unlock()
	assert.Equal(t, 0, locker.held())
}

func TestChainLocker(t *testing.T) {
	first, second := NewKeyedMutex(), NewKeyedMutex()
	chain := ChainLocker{first, second}

	unlock, err := chain.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, first.held())
	assert.Equal(t, 1, second.held())
	unlock()
	assert.Equal(t, 0, first.held())
	assert.Equal(t, 0, second.held())

	// a failure on the second locker releases the first
	held, err := second.Lock(context.Background(), "k")
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = chain.Lock(ctx, "k")
	assert.Error(t, err)
	assert.Equal(t, 0, first.held())
	held()
}

func TestRedisLocker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	client := testhelpers.SetupRedis(t)
	a := NewRedisLocker(client, time.Minute, nil)
	b := NewRedisLocker(client, time.Minute, nil)

	unlock, err := a.Lock(context.Background(), "recipe:김치전")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	_, err = b.Lock(ctx, "recipe:김치전")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	acquired := make(chan struct{})
	go func() {
		unlockB, err := b.Lock(context.Background(), "recipe:김치전")
		if err == nil {
			unlockB()
		}
		close(acquired)
	}()
	unlock()

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second locker never acquired the released lock")
	}

	exists, err := client.Exists(context.Background(), "fridgechef:lock:recipe:김치전").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), exists)
}
