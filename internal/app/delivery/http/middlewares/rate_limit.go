package middlewares

import (
	"net/http"
	"time"

	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/go-chi/httprate"
)

const (
	defaultMaxRequests     = 100
	callbackRequestsFactor = 5
)

// CreateRateLimiters returns the per-IP limiter for client traffic and a looser one for
// gateway callbacks, which arrive in bursts from a handful of addresses.
func (m *Middlewares) CreateRateLimiters() (normalLimiter, callbackLimiter func(next http.Handler) http.Handler) {
	maxRequests := m.InternalConfig.App.MaxRequests
	if maxRequests <= 0 {
		maxRequests = defaultMaxRequests
	}
	window := time.Duration(m.InternalConfig.App.MaxTimeRequestsPerSeconds) * time.Second
	if window <= 0 {
		window = time.Second
	}

	limitHandler := httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
		utils.BuildErrorResponse(m.Log, w, exceptions.ErrTooManyRequests())
	})

	normalLimiter = httprate.Limit(maxRequests, window, httprate.WithKeyFuncs(httprate.KeyByIP), limitHandler)
	callbackLimiter = httprate.Limit(maxRequests*callbackRequestsFactor, window, httprate.WithKeyFuncs(httprate.KeyByIP), limitHandler)
	return normalLimiter, callbackLimiter
}
