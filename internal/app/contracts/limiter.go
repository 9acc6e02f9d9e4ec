package contracts

import "context"

type AttemptDecision struct {
	Allowed        bool
	RetryAfterSecs int
}

// AttemptLimiter counts attempts per group and subject in fixed windows.
type AttemptLimiter interface {
	Hit(ctx context.Context, group, subject string) (*AttemptDecision, error)
}
