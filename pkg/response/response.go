package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JS-Ranker/tester/pkg/apperrors"
)

// Envelope represents the standard API response shape.
type Envelope struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      *ErrorBody  `json:"error,omitempty"`
	Pagination interface{} `json:"pagination,omitempty"`
}

// ErrorBody is the client-safe part of an error. Internal error text is never exposed.
type ErrorBody struct {
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Success writes a success response with optional message and data.
func Success(c *gin.Context, status int, data interface{}, message string, pagination interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

// Error writes an error response. The error code and field errors are taken
// from err when it is an *apperrors.AppError.
func Error(c *gin.Context, status int, message string, err error) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
		Error:   bodyFor(status, err),
	})
}

// ErrorWithLog writes an error response and logs the error via slog.
// Server errors are logged at error level, client errors at debug.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger != nil && err != nil {
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, message,
			slog.Int("status", status),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
	}

	Error(c, status, message, err)
}

// AppError writes err using its own status and message.
func AppError(logger *slog.Logger, c *gin.Context, err *apperrors.AppError) {
	ErrorWithLog(logger, c, err.StatusCode(), err.Message(), err)
}

func bodyFor(status int, err error) *ErrorBody {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &ErrorBody{Code: string(appErr.Code()), Fields: appErr.Fields()}
	}
	return &ErrorBody{Code: codeForStatus(status)}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return string(apperrors.ErrValidation)
	case http.StatusUnauthorized:
		return string(apperrors.ErrUnauthorized)
	case http.StatusForbidden:
		return string(apperrors.ErrForbidden)
	case http.StatusNotFound:
		return string(apperrors.ErrNotFound)
	case http.StatusConflict:
		return string(apperrors.ErrConflict)
	case http.StatusTooManyRequests:
		return string(apperrors.ErrTooMany)
	default:
		return string(apperrors.ErrInternal)
	}
}
