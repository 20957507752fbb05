// Package lock сериализует изменения расписания одного врача на одну дату.
package lock

import (
	"context"
	"errors"
	"slices"
)

var (
	// ErrLockNotAcquired блокировку не удалось взять за отведённое время
	ErrLockNotAcquired = errors.New("lock: not acquired")

	// ErrBackend ошибка хранилища блокировок
	ErrBackend = errors.New("lock: backend error")
)

// Locker выполняет fn, удерживая блокировку key
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// WithLocks берёт блокировки всех keys в порядке сортировки и выполняет fn.
// Повторяющиеся ключи берутся один раз.
func WithLocks(ctx context.Context, l Locker, keys []string, fn func(ctx context.Context) error) error {
	keys = slices.Compact(slices.Sorted(slices.Values(keys)))
	return withLocks(ctx, l, keys, fn)
}

func withLocks(ctx context.Context, l Locker, keys []string, fn func(ctx context.Context) error) error {
	if len(keys) == 0 {
		return fn(ctx)
	}
	return l.WithLock(ctx, keys[0], func(ctx context.Context) error {
		return withLocks(ctx, l, keys[1:], fn)
	})
}
