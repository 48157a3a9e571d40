package port

import (
	"context"
	"time"
)

type RateLimiter interface {
	// Allow counts one hit for key and reports whether it is within limit for the current window
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
