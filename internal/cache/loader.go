package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value for a key on a cache miss.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Loader is a read-through cache. Concurrent misses on one key share a single
// call to the load function; failed loads are not cached.
type Loader[T any] struct {
	cache *LRUCache[T]
	group singleflight.Group
}

func NewLoader[T any](cache *LRUCache[T]) *Loader[T] {
	return &Loader[T]{cache: cache}
}

func (l *Loader[T]) Get(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	if v, ok := l.cache.Get(key); ok {
		return v, nil
	}
	v, err, _ := l.group.Do(key, func() (any, error) {
		if v, ok := l.cache.Get(key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		l.cache.Set(key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// Invalidate forgets key so the next Get reloads it.
func (l *Loader[T]) Invalidate(key string) {
	l.cache.Delete(key)
}

func (l *Loader[T]) CleanExpired() int {
	return l.cache.CleanExpired()
}
