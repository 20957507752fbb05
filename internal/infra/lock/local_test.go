package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalLocker_SerializesSameKey(t *testing.T) {
	l := NewLocalLocker(0)

	var (
		wg      sync.WaitGroup
		inside  atomic.Int32
		maxSeen atomic.Int32
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), "doctor-day:D1:2025-06-01", func(ctx context.Context) error {
				n := inside.Add(1)
				if n > maxSeen.Load() {
					maxSeen.Store(n)
				}
				time.Sleep(time.Millisecond)
				inside.Add(-1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Empty(t, l.locks)
}

func TestLocalLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewLocalLocker(50 * time.Millisecond)

	err := l.WithLock(context.Background(), "a", func(ctx context.Context) error {
		return l.WithLock(ctx, "b", func(ctx context.Context) error { return nil })
	})
	assert.NoError(t, err)
}

func TestLocalLocker_WaitExpires(t *testing.T) {
	l := NewLocalLocker(20 * time.Millisecond)

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "k", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	err := l.WithLock(context.Background(), "k", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	close(release)
}

func TestLocalLocker_ContextCancelled(t *testing.T) {
	l := NewLocalLocker(0)

	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), "k", func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.WithLock(ctx, "k", func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
}

func TestLocalLocker_PropagatesError(t *testing.T) {
	l := NewLocalLocker(0)
	boom := errors.New("boom")

	err := l.WithLock(context.Background(), "k", func(ctx context.Context) error { return boom })
	require.ErrorIs(t, err, boom)
}

func TestWithLocks_DedupesAndOrders(t *testing.T) {
	rec := &recordingLocker{inner: NewLocalLocker(0)}

	called := false
	err := WithLocks(context.Background(), rec, []string{"doctor-day:D1:2025-06-02", "doctor-day:D1:2025-06-01", "doctor-day:D1:2025-06-02"},
		func(ctx context.Context) error {
			called = true
			return nil
		})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []string{"doctor-day:D1:2025-06-01", "doctor-day:D1:2025-06-02"}, rec.keys)
}

type recordingLocker struct {
	inner Locker
	keys  []string
}

func (r *recordingLocker) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	r.keys = append(r.keys, key)
	return r.inner.WithLock(ctx, key, fn)
}
