package exceptions

import (
	"errors"
	"fmt"
	"runtime"

	"dococlock-service/internal/pkg/constvars"
)

type CustomError struct {
	StatusCode    int        `json:"status_code"`
	Success       bool       `json:"success"`
	Code          string     `json:"error_code,omitempty"`
	ClientMessage string     `json:"message"`
	DevMessage    string     `json:"-"`
	Locations     []Location `json:"-"`
	Err           error      `json:"-"`
}

type Location struct {
	File         string
	Line         int
	FunctionName string
}

func (e *CustomError) Error() string {
	if len(e.Locations) == 0 {
		return e.DevMessage
	}
	location := e.Locations[len(e.Locations)-1]
	return fmt.Sprintf("%s (%s:%d %s)", e.DevMessage, location.File, location.Line, location.FunctionName)
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithCode tags the error with one of the constvars.ErrCode* values.
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

func WrapWithoutError(statusCode int, clientMessage, devMessage string) *CustomError {
	return &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Locations:     []Location{getLocation(2)},
	}
}

func WrapWithError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return newCustomError(err, statusCode, clientMessage, devMessage, getLocation(2))
}

// BuildNewCustomError is meant to be called from the constructor variables in types.go,
// so the recorded location is the caller of the constructor.
func BuildNewCustomError(err error, statusCode int, clientMessage, devMessage string) *CustomError {
	return newCustomError(err, statusCode, clientMessage, devMessage, getLocation(3))
}

func newCustomError(err error, statusCode int, clientMessage, devMessage string, location Location) *CustomError {
	customErr := &CustomError{
		StatusCode:    statusCode,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Err:           err,
	}

	var inner *CustomError
	if errors.As(err, &inner) {
		customErr.Locations = append(customErr.Locations, inner.Locations...)
	}
	customErr.Locations = append(customErr.Locations, location)

	if err != nil {
		customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return customErr
}

// HasCode reports whether any CustomError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var customErr *CustomError
		if !errors.As(err, &customErr) {
			return false
		}
		if customErr.Code == code {
			return true
		}
		err = customErr.Err
	}
	return false
}

// IsRetryable reports whether err belongs to the persistence family, which callers may
// retry with backoff when the operation is idempotent.
func IsRetryable(err error) bool {
	return HasCode(err, constvars.ErrCodePersistence) || HasCode(err, constvars.ErrCodeTransitionConflict)
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ResponseUnknown,
			Line:         0,
			FunctionName: constvars.ResponseUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
