package exceptions

import (
	"fmt"

	"dococlock-service/internal/pkg/constvars"
)

var (
	ErrInputValidation = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, FormatFirstValidationError(err), constvars.ErrDevValidationFailed).WithCode(constvars.ErrCodeValidation)
	}
	ErrURLParamValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamValidationFailed, paramName)).WithCode(constvars.ErrCodeValidation)
	}
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON).WithCode(constvars.ErrCodeValidation)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON).WithCode(constvars.ErrCodeInternal)
	}
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded).WithCode(constvars.ErrCodeInternal)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess).WithCode(constvars.ErrCodeInternal)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevMissingRequestID).WithCode(constvars.ErrCodeValidation)
	}
	ErrHashPassword = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevFailedToHashPassword).WithCode(constvars.ErrCodeInternal)
	}
	ErrNotAuthorized = func(reason string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientNotAuthorized, fmt.Sprintf(constvars.ErrDevNotAuthorized, reason)).WithCode(constvars.ErrCodeValidation)
	}
	ErrForbidden = func(roles []string, method, path string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusForbidden, constvars.ErrClientForbidden, fmt.Sprintf(constvars.ErrDevForbidden, roles, method, path)).WithCode(constvars.ErrCodeForbidden)
	}
	ErrInvalidCredentials = func(email string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientInvalidCredentials, fmt.Sprintf(constvars.ErrDevInvalidCredentials, email)).WithCode(constvars.ErrCodeValidation)
	}
	ErrTooManyRequests = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, constvars.ErrDevTooManyRequests).WithCode(constvars.ErrCodeRateLimited)
	}
	ErrTooManyAttempts = func(group, subject string, retryAfterSecs int) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusTooManyRequests, constvars.ErrClientTooManyRequests, fmt.Sprintf(constvars.ErrDevTooManyAttempts, group, subject, retryAfterSecs)).WithCode(constvars.ErrCodeRateLimited)
	}
	ErrTokenGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevTokenGenerate).WithCode(constvars.ErrCodeInternal)
	}

	// Payment lifecycle
	ErrPaymentNotFound = func(err error, paymentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientPaymentNotFound, fmt.Sprintf(constvars.ErrDevPaymentNotFound, paymentID)).WithCode(constvars.ErrCodePaymentNotFound)
	}
	ErrInvalidTransition = func(current, next string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientInvalidPaymentTransition, fmt.Sprintf(constvars.ErrDevInvalidTransition, current, next)).WithCode(constvars.ErrCodeInvalidTransition)
	}
	ErrTransitionConflict = func(paymentID, expected string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPaymentBusy, fmt.Sprintf(constvars.ErrDevTransitionConflict, paymentID, expected)).WithCode(constvars.ErrCodeTransitionConflict)
	}
	ErrPaymentCaptureLocked = func(paymentID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientPaymentBusy, fmt.Sprintf(constvars.ErrDevPaymentCaptureLocked, paymentID)).WithCode(constvars.ErrCodeTransitionConflict)
	}
	ErrInvalidRefundAmount = func(refundAmount, amount string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientInvalidRefundAmount, fmt.Sprintf(constvars.ErrDevInvalidRefundAmount, refundAmount, amount)).WithCode(constvars.ErrCodeValidation)
	}
	ErrUnsupportedPaymentMethod = func(method string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientUnsupportedPaymentMethod, fmt.Sprintf(constvars.ErrDevUnsupportedPaymentMethod, method)).WithCode(constvars.ErrCodeValidation)
	}

	ErrReceiptNotFound = func(err error, paymentID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusNotFound, constvars.ErrClientReceiptNotFound, fmt.Sprintf(constvars.ErrDevReceiptNotFound, paymentID)).WithCode(constvars.ErrCodePaymentNotFound)
	}

	// Gateways
	ErrGatewayRequest = func(err error, gateway string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientPaymentGatewayFailed, fmt.Sprintf(constvars.ErrDevGatewayRequestFailed, gateway)).WithCode(constvars.ErrCodeGateway)
	}
	ErrGatewayDeclined = func(gateway, reason string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadGateway, constvars.ErrClientPaymentGatewayFailed, fmt.Sprintf(constvars.ErrDevGatewayDeclined, gateway, reason)).WithCode(constvars.ErrCodeGateway)
	}
	ErrIncompatibleProvider = func(prefix, provider string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientIncompatibleProvider, fmt.Sprintf(constvars.ErrDevIncompatibleProvider, prefix, provider)).WithCode(constvars.ErrCodeIncompatibleProvider)
	}
	ErrInvalidPhoneNumber = func(phoneNumber string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientInvalidPhoneNumber, fmt.Sprintf(constvars.ErrDevInvalidPhoneNumber, phoneNumber)).WithCode(constvars.ErrCodeValidation)
	}

	// Offline sync
	ErrUnknownActionType = func(actionType string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevUnknownActionType, actionType)).WithCode(constvars.ErrCodeUnknownActionType)
	}
	ErrOfflineActionPayload = func(err error, actionID string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevOfflineActionInvalidPayload, actionID)).WithCode(constvars.ErrCodeValidation)
	}
	ErrOfflineActionNotOwned = func(actionID, actingFor, userID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusForbidden, constvars.ErrClientForbidden, fmt.Sprintf(constvars.ErrDevOfflineActionNotOwned, actionID, actingFor, userID)).WithCode(constvars.ErrCodeForbidden)
	}
	ErrSyncInProgress = func() *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientSyncInProgress, constvars.ErrDevSyncInProgress).WithCode(constvars.ErrCodeInternal)
	}
	ErrCachedValueNotFound = func(key string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientCachedValueNotFound, key).WithCode(constvars.ErrCodeValidation)
	}

	// Two-factor
	ErrTwoFactorInvalidCode = func(userID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusUnauthorized, constvars.ErrClientTwoFactorInvalidCode, fmt.Sprintf(constvars.ErrDevTwoFactorInvalidCode, userID)).WithCode(constvars.ErrCodeTwoFactorInvalidCode)
	}
	ErrTwoFactorNotConfigured = func(userID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusNotFound, constvars.ErrClientTwoFactorNotConfigured, fmt.Sprintf(constvars.ErrDevTwoFactorNotConfigured, userID)).WithCode(constvars.ErrCodeValidation)
	}
	ErrTwoFactorAlreadyEnabled = func(userID string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusConflict, constvars.ErrClientTwoFactorAlreadyEnabled, fmt.Sprintf(constvars.ErrDevTwoFactorAlreadyEnabled, userID)).WithCode(constvars.ErrCodeValidation)
	}
	ErrTwoFactorGenerate = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevTwoFactorGenerate).WithCode(constvars.ErrCodeInternal)
	}

	// Registration
	ErrEmailAlreadyExist = func(email string) *CustomError {
		return BuildNewCustomError(nil, constvars.StatusBadRequest, constvars.ErrClientEmailAlreadyExists, fmt.Sprintf(constvars.ErrDevEmailAlreadyExists, email)).WithCode(constvars.ErrCodeValidation)
	}
	ErrRegistrationStep = func(err error, step string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientRegistrationFailed, fmt.Sprintf(constvars.ErrDevRegistrationStepFailed, step)).WithCode(constvars.ErrCodeRegistration)
	}

	// Mongo DB
	ErrMongoDBFindDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToFindDocument).WithCode(constvars.ErrCodePersistence)
	}
	ErrMongoDBInsertDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToInsertDocument).WithCode(constvars.ErrCodePersistence)
	}
	ErrMongoDBUpdateDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToUpdateDocument).WithCode(constvars.ErrCodePersistence)
	}
	ErrMongoDBDeleteDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToDeleteDocument).WithCode(constvars.ErrCodePersistence)
	}
	ErrMongoDBDecodeDocument = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevDBFailedToDecodeDocument).WithCode(constvars.ErrCodePersistence)
	}

	// Redis
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisIncrement = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisIncrementValue).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisPushToList = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisPushToList).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisPopFromList = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisPopFromList).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisSortedSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSortedSet).WithCode(constvars.ErrCodePersistence)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock).WithCode(constvars.ErrCodePersistence)
	}

	// RabbitMQ
	ErrRabbitMQPublishMessage = func(err error, queueName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevRabbitMQPublishMessage, queueName)).WithCode(constvars.ErrCodePersistence)
	}

	// Minio
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioCreateObject, bucketName)).WithCode(constvars.ErrCodePersistence)
	}
	ErrMinioPresignedURL = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, fmt.Sprintf(constvars.ErrDevMinioPresignedURL, bucketName)).WithCode(constvars.ErrCodePersistence)
	}

	// HTTP
	ErrCreateHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCreateHTTPRequest).WithCode(constvars.ErrCodeInternal)
	}
	ErrSendHTTPRequest = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadGateway, constvars.ErrClientCannotProcessRequest, constvars.ErrDevSendHTTPRequest).WithCode(constvars.ErrCodeGateway)
	}
)
