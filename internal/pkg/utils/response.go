package utils

import (
	"errors"
	"net/http"

	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/dto/responses"
	"dococlock-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func BuildSuccessResponse(w http.ResponseWriter, code int, message string, data interface{}) {
	response := responses.ResponseDTO{
		Success: true,
		Message: message,
		Data:    data,
	}
	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// BuildErrorResponse logs the full error with its call-site locations and writes only the
// client message and error code to the response.
func BuildErrorResponse(log *zap.Logger, w http.ResponseWriter, err error) {
	code := constvars.StatusInternalServerError
	clientMessage := constvars.ErrClientSomethingWrongWithApplication
	errorCode := constvars.ErrCodeInternal

	var customErr *exceptions.CustomError
	if errors.As(err, &customErr) {
		code = customErr.StatusCode
		clientMessage = customErr.ClientMessage
		if customErr.Code != "" {
			errorCode = customErr.Code
		}
		locations := make([]map[string]interface{}, 0, len(customErr.Locations))
		for _, location := range customErr.Locations {
			locations = append(locations, map[string]interface{}{
				"file":          location.File,
				"line":          location.Line,
				"function_name": location.FunctionName,
			})
		}
		log.Error(customErr.DevMessage,
			zap.String(constvars.LoggingErrorCodeKey, errorCode),
			zap.Any("locations", locations),
		)
	} else if err != nil {
		log.Error(err.Error())
	}

	w.Header().Set(constvars.HeaderContentType, constvars.MIMEApplicationJSON)
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(responses.ErrorDTO{
		Success:    false,
		StatusCode: code,
		ErrorCode:  errorCode,
		Message:    clientMessage,
	})
}
