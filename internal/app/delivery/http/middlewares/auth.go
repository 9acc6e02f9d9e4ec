package middlewares

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"dococlock-service/internal/app/services/core/roles"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate requires a bearer session token and puts the user id and roles on the
// request context.
func (m *Middlewares) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := utils.GetRequestID(r.Context())

		authHeader := r.Header.Get(constvars.HeaderAuthorization)
		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || token == "" {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized("missing bearer token"))
			return
		}

		claims, err := utils.ParseSessionJWT(token, m.InternalConfig.JWT.Secret)
		if err != nil {
			utils.LogSecurityEvent(m.Log, "invalid_session_token", requestID, "medium",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.Error(err),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized("invalid session token"))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_UID_KEY, claims.Subject)
		ctx = context.WithValue(ctx, constvars.CONTEXT_ROLES_KEY, claims.Roles)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize checks the roles Authenticate put on the context against the RBAC policy. It
// must run after Authenticate.
func (m *Middlewares) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userRoles := utils.GetUserRoles(r.Context())

		if !roles.Allowed(m.Enforcer, userRoles, r.Method, r.URL.Path) {
			utils.LogSecurityEvent(m.Log, "request_forbidden", utils.GetRequestID(r.Context()), "low",
				zap.String(constvars.LoggingUserIDKey, utils.GetUserID(r.Context())),
				zap.Strings("roles", userRoles),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrForbidden(userRoles, r.Method, r.URL.Path))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCallbackToken guards the gateway callback routes with the shared secret the edge
// wrappers send.
func (m *Middlewares) RequireCallbackToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := m.InternalConfig.PaymentGateway.CallbackToken
		provided := r.Header.Get(constvars.HeaderCallbackToken)

		if expected == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			utils.LogSecurityEvent(m.Log, "callback_token_rejected", utils.GetRequestID(r.Context()), "high",
				zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
				zap.String(constvars.LoggingEndpointKey, r.URL.Path),
				zap.String(constvars.LoggingUserAgentKey, r.UserAgent()),
			)
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrNotAuthorized("invalid callback token"))
			return
		}

		next.ServeHTTP(w, r)
	})
}
