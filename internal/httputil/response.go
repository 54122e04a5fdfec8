// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/rolegate/internal/errors"
)

// UnavailableRetryAfter is the Retry-After hint sent with 503 responses, in seconds.
const UnavailableRetryAfter = 5

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// errorMapping ties a sentinel to its response. An empty message echoes the error text.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// errorMappings is checked in order; the first sentinel found in the chain wins.
var errorMappings = []errorMapping{
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{apperrors.ErrConflict, http.StatusConflict, "conflict", "A conflict occurred with existing data"},
	{apperrors.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid_input", ""},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "A session is required"},
	{apperrors.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "An upstream service is unavailable"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "The session's roles do not permit this operation"},
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON error body.
// Unmapped errors become a 500 whose body never carries the error text.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	statusCode := http.StatusInternalServerError
	errorResponse := ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	}

	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		statusCode = m.status
		errorResponse = ErrorResponse{Error: m.code, Message: m.message}
		if errorResponse.Message == "" {
			errorResponse.Message = err.Error()
		}
		break
	}

	if logger != nil {
		level := slog.LevelWarn
		if statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c, level, "request failed",
			slog.Int("status_code", statusCode),
			slog.String("error_code", errorResponse.Error),
			slog.Any("error", err),
		)
	}

	if statusCode == http.StatusServiceUnavailable {
		c.Header("Retry-After", strconv.Itoa(UnavailableRetryAfter))
	}

	c.JSON(statusCode, errorResponse)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters using Gin.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors using Gin.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
