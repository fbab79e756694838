package ports

import (
	"context"
	"time"
)

// Attempt is the outcome of recording one attempt against a budget.
type Attempt struct {
	Allowed   bool
	Count     int
	Remaining int
	ResetAt   time.Time
}

// AttemptLimiter counts attempts per key inside a fixed window.
type AttemptLimiter interface {
	Hit(ctx context.Context, key string) (Attempt, error)
}
