package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Engine error codes. Every operation surfaces failures as one of these so
// callers can react without string matching.
const (
	CodeNotFound        = "not_found"         // booking/quotation/caterer missing
	CodeForbidden       = "forbidden"         // actor does not own the resource
	CodeConflict        = "conflict"          // date unavailable or a booking race lost
	CodeInvalidState    = "invalid_state"     // operation against the wrong lifecycle state
	CodeOutOfOrderStep  = "out_of_order_step" // verification step attempted out of order
	CodeOracleFailure   = "oracle_failure"    // verification provider unreachable; retryable
	CodeValidationError = "validation_error"  // malformed or out-of-range input
)

// EngineError is the typed failure returned by engine operations.
type EngineError struct {
	Code    string
	Message string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewNotFound(format string, args ...any) error {
	return &EngineError{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewForbidden(format string, args ...any) error {
	return &EngineError{Code: CodeForbidden, Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...any) error {
	return &EngineError{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func NewInvalidState(format string, args ...any) error {
	return &EngineError{Code: CodeInvalidState, Message: fmt.Sprintf(format, args...)}
}

func NewOutOfOrderStep(format string, args ...any) error {
	return &EngineError{Code: CodeOutOfOrderStep, Message: fmt.Sprintf(format, args...)}
}

func NewOracleFailure(format string, args ...any) error {
	return &EngineError{Code: CodeOracleFailure, Message: fmt.Sprintf(format, args...)}
}

func NewValidationError(format string, args ...any) error {
	return &EngineError{Code: CodeValidationError, Message: fmt.Sprintf(format, args...)}
}

// HasCode reports whether err is an EngineError with the given code.
func HasCode(err error, code string) bool {
	var ee *EngineError
	return errors.As(err, &ee) && ee.Code == code
}

// httpStatus maps engine error codes to HTTP statuses.
func httpStatus(code string) int {
	switch code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeConflict:
		return http.StatusConflict
	case CodeInvalidState, CodeOutOfOrderStep:
		return http.StatusUnprocessableEntity
	case CodeOracleFailure:
		return http.StatusBadGateway
	case CodeValidationError:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err))
				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// RespondError writes an engine error as a JSON response with the mapped
// status. Unknown errors become opaque 500s so internals do not leak.
func RespondError(c *gin.Context, err error) {
	var ee *EngineError
	if errors.As(err, &ee) {
		GetLogger().Warn("request failed", zap.String("code", ee.Code), zap.String("message", ee.Message))
		c.JSON(httpStatus(ee.Code), ErrorResponse{Code: ee.Code, Message: ee.Message})
		return
	}
	GetLogger().Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal Server Error"})
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.String("details", details))
	c.JSON(status, ErrorResponse{Message: message, Details: details})
}
