package utils

import (
	"context"
	"slices"
	"time"

	"dococlock-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

func LogBusinessEvent(logger *zap.Logger, event string, requestID string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("business_event", event),
		zap.Time("timestamp", time.Now()),
	}
	allFields = append(allFields, fields...)

	logger.Info("Business event occurred", allFields...)
}

func LogSecurityEvent(logger *zap.Logger, event string, requestID string, severity string, fields ...zap.Field) {
	allFields := []zap.Field{
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String("security_event", event),
		zap.String("severity", severity),
		zap.Time("timestamp", time.Now()),
	}
	allFields = append(allFields, fields...)

	logger.Warn("Security event detected", allFields...)
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string); ok {
		return requestID
	}
	return ""
}

// DetachedContext keeps the request id of ctx but none of its deadline or cancellation,
// for work that outlives the request that triggered it.
func DetachedContext(ctx context.Context) context.Context {
	return context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, GetRequestID(ctx))
}

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(constvars.CONTEXT_UID_KEY).(string); ok {
		return userID
	}
	return ""
}

func GetUserRoles(ctx context.Context) []string {
	if roles, ok := ctx.Value(constvars.CONTEXT_ROLES_KEY).([]string); ok {
		return roles
	}
	return nil
}

func HasRole(ctx context.Context, role string) bool {
	return slices.Contains(GetUserRoles(ctx), role)
}
