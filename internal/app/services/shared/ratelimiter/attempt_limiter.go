package ratelimiter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// attemptLimiter is a fixed-window counter kept in Redis. Each window gets its own key
// that expires one second after the window closes.
type attemptLimiter struct {
	redis    contracts.RedisRepository
	log      *zap.Logger
	window   time.Duration
	maxQuota int
	now      func() time.Time
}

func NewAttemptLimiter(redis contracts.RedisRepository, log *zap.Logger, window time.Duration, maxQuota int) contracts.AttemptLimiter {
	if window < time.Second {
		window = time.Minute
	}
	return &attemptLimiter{
		redis:    redis,
		log:      log,
		window:   window,
		maxQuota: maxQuota,
		now:      time.Now,
	}
}

func (l *attemptLimiter) Hit(ctx context.Context, group, subject string) (*contracts.AttemptDecision, error) {
	if l.maxQuota <= 0 {
		return &contracts.AttemptDecision{Allowed: true}, nil
	}

	group = strings.ToUpper(strings.TrimSpace(group))
	subject = strings.ToLower(strings.TrimSpace(subject))
	windowSecs := int64(l.window / time.Second)
	if group == "" || subject == "" {
		return &contracts.AttemptDecision{Allowed: false, RetryAfterSecs: int(windowSecs)}, nil
	}

	now := l.now().UTC()
	windowID := now.Unix() / windowSecs
	key := fmt.Sprintf(constvars.RedisKeyAttemptWindowFormat, group, subject, windowID)

	count, err := l.redis.IncrementWithTTL(ctx, key, l.window+time.Second)
	if err != nil {
		l.log.Error("attemptLimiter.Hit increment failed",
			zap.String(constvars.LoggingRequestIDKey, utils.GetRequestID(ctx)),
			zap.String(constvars.LoggingRedisKey, key),
			zap.Error(err),
		)
		return nil, err
	}

	if count > int64(l.maxQuota) {
		nextWindow := (windowID + 1) * windowSecs
		return &contracts.AttemptDecision{
			Allowed:        false,
			RetryAfterSecs: int(nextWindow-now.Unix()) + 1,
		}, nil
	}
	return &contracts.AttemptDecision{Allowed: true}, nil
}
