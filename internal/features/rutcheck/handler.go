package rutcheck

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JS-Ranker/tester/pkg/apperrors"
	"github.com/JS-Ranker/tester/pkg/metrics"
	"github.com/JS-Ranker/tester/pkg/request"
	"github.com/JS-Ranker/tester/pkg/response"
	"github.com/JS-Ranker/tester/pkg/rut"
)

const metricSource = "api"

// Handler exposes the RUT helpers to clients that validate before submitting forms.
type Handler struct {
	logger *slog.Logger
}

// NewHandler constructs a rutcheck handler.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

type rutRequest struct {
	RUT string `json:"rut" binding:"required"`
}

// ValidateResult is the body of a validation response.
type ValidateResult struct {
	Valid      bool   `json:"valid"`
	Normalized string `json:"normalized"`
	Formatted  string `json:"formatted,omitempty"`
}

// Validate reports whether the submitted RUT is valid. An invalid RUT is not
// a request error; the answer is simply valid=false.
func (h *Handler) Validate(c *gin.Context) {
	var req rutRequest
	if appErr := request.BindJSON(c, &req, "invalid RUT payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	candidate := strings.TrimSpace(req.RUT)
	result := ValidateResult{
		Valid:      rut.IsValid(candidate),
		Normalized: rut.Normalize(candidate),
	}
	if result.Valid {
		result.Formatted = rut.Format(candidate)
	}
	metrics.RecordRUTValidation(metricSource, result.Valid)

	response.Success(c, http.StatusOK, result, "", nil)
}

// FormatResult is the body of a format response.
type FormatResult struct {
	RUT        string `json:"rut"`
	Normalized string `json:"normalized"`
	Body       string `json:"body"`
	Verifier   string `json:"verifier"`
}

// Format returns the canonical display form of a valid RUT.
func (h *Handler) Format(c *gin.Context) {
	var req rutRequest
	if appErr := request.BindJSON(c, &req, "invalid RUT payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	id, err := rut.Parse(req.RUT)
	metrics.RecordRUTValidation(metricSource, err == nil)
	if err != nil {
		response.AppError(h.logger, c, invalidRUT(err))
		return
	}

	response.Success(c, http.StatusOK, FormatResult{
		RUT:        id.String(),
		Normalized: id.Normalized(),
		Body:       id.Body(),
		Verifier:   id.Verifier(),
	}, "", nil)
}

// CheckDigit computes the verifier for the digits given in the body query parameter.
func (h *Handler) CheckDigit(c *gin.Context) {
	body := rut.Normalize(strings.TrimSpace(c.Query("body")))
	digit, err := rut.CheckDigit(body)
	if err != nil {
		response.AppError(h.logger, c, apperrors.Validation("Invalid RUT body",
			map[string]string{"body": "must contain only digits"}, err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"body":       body,
		"checkDigit": string(digit),
		"rut":        rut.Format(body + string(digit)),
	}, "", nil)
}

func invalidRUT(err error) *apperrors.AppError {
	return apperrors.Validation("Invalid RUT",
		map[string]string{"rut": "must be a valid RUT (e.g. 12.345.678-5)"}, err)
}
