package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/exceptions"
	"dococlock-service/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const usecaseTimeout = 10 * time.Second

func requireRequestID(log *zap.Logger, w http.ResponseWriter, r *http.Request) (string, bool) {
	requestID, ok := r.Context().Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if !ok || requestID == "" {
		log.Error("Request ID missing from context",
			zap.String(constvars.LoggingEndpointKey, r.URL.Path),
			zap.String(constvars.LoggingMethodKey, r.Method),
			zap.String(constvars.LoggingRemoteAddrKey, r.RemoteAddr),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

// decodeAndValidate writes the error response itself and reports whether the handler may
// continue.
func decodeAndValidate(log *zap.Logger, w http.ResponseWriter, r *http.Request, requestID string, request interface{}) bool {
	if !decodeOnly(log, w, r, requestID, request) {
		return false
	}
	return validate(log, w, requestID, request)
}

func decodeOnly(log *zap.Logger, w http.ResponseWriter, r *http.Request, requestID string, request interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		log.Error("Failed to parse request body",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, "JSON parsing"),
			zap.Error(err),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrCannotParseJSON(err))
		return false
	}
	return true
}

func validate(log *zap.Logger, w http.ResponseWriter, requestID string, request interface{}) bool {
	if err := utils.ValidateStruct(request); err != nil {
		log.Error("Request validation failed",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingErrorTypeKey, "validation"),
			zap.Error(err),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrInputValidation(err))
		return false
	}
	return true
}

func writeUsecaseError(log *zap.Logger, w http.ResponseWriter, requestID, operation string, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		log.Error("Usecase deadline exceeded",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingOperationKey, operation),
		)
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	log.Error("Usecase returned error",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingOperationKey, operation),
		zap.Error(err),
	)
	utils.BuildErrorResponse(log, w, err)
}
