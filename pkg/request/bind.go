package request

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JS-Ranker/tester/pkg/apperrors"
	"github.com/JS-Ranker/tester/pkg/validation"
)

// DateLayout is the calendar date format accepted in payloads.
const DateLayout = "2006-01-02"

// BindJSON decodes the body into dst and runs binding validation. Validation
// failures come back as a 400 AppError with per-field messages.
func BindJSON(c *gin.Context, dst interface{}, message string) *apperrors.AppError {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperrors.Validation(message, validation.FieldErrors(err), err)
	}
	return nil
}

// ParseDatePtr parses an optional YYYY-MM-DD string.
func ParseDatePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return nil, errors.New("date must use the YYYY-MM-DD format")
	}
	return &parsed, nil
}
