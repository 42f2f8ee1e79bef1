package cache

import (
	"context"
	"time"
)

// Memoize wraps fn so that results are served from c when fresh. On a miss
// the underlying function runs and its result is stored under keyFn(arg).
// Errors are returned unchanged and never cached. Concurrent calls for the
// same key during an in-flight computation are not deduplicated; each
// proceeds independently and the last writer's result remains cached.
func Memoize[A any, V any](c Cache[string, any], keyFn func(A) string, ttl time.Duration, fn func(context.Context, A) (V, error)) func(context.Context, A) (V, error) {
	return func(ctx context.Context, arg A) (V, error) {
		key := keyFn(arg)
		if cached, ok := c.Get(key); ok {
			if v, ok := cached.(V); ok {
				return v, nil
			}
		}
		v, err := fn(ctx, arg)
		if err != nil {
			return v, err
		}
		c.Set(key, v, ttl)
		return v, nil
	}
}
