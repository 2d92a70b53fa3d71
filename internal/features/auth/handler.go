package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/middleware"
	"github.com/JS-Ranker/tester/pkg/apperrors"
	"github.com/JS-Ranker/tester/pkg/request"
	"github.com/JS-Ranker/tester/pkg/response"
)

// Handler processes authentication HTTP requests.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs an auth handler instance.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

type registerRequest struct {
	FullName        string  `json:"fullName" binding:"required"`
	RUT             string  `json:"rut" binding:"required,rut"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Password        string  `json:"password" binding:"required"`
	ConfirmPassword string  `json:"confirmPassword" binding:"required,eqfield=Password"`
}

// Register creates a new owner account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if appErr := request.BindJSON(c, &req, "invalid registration payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), RegisterInput{
		RUT:      req.RUT,
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err, "registration failed")
		return
	}

	response.SuccessNoCache(c, http.StatusCreated, resp, "Registration successful")
}

type loginRequest struct {
	RUT      string `json:"rut" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an owner by RUT and password.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if appErr := request.BindJSON(c, &req, "invalid login payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), LoginInput{RUT: req.RUT, Password: req.Password})
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	response.SuccessNoCache(c, http.StatusOK, resp, "Login successful")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if appErr := request.BindJSON(c, &req, "invalid refresh payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(c, err, "token refresh failed")
		return
	}

	response.SuccessNoCache(c, http.StatusOK, resp, "Token refreshed")
}

// Logout revokes the authenticated owner's refresh token.
func (h *Handler) Logout(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.service.Logout(c.Request.Context(), principal.OwnerID); err != nil {
		h.respondError(c, err, "logout failed")
		return
	}

	response.Success(c, http.StatusOK, true, "Logout successful", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		appErr = apperrors.Unauthorized("Invalid RUT or password", err)
	case errors.Is(err, ErrInactiveAccount):
		appErr = apperrors.Forbidden("Your account is inactive. Please contact the clinic", err)
	case errors.Is(err, ErrTooManyAttempts):
		appErr = apperrors.TooManyRequests("Too many failed login attempts. Please try again later", err)
	case errors.Is(err, ErrInvalidToken):
		appErr = apperrors.Unauthorized("Invalid or expired token", err)
	default:
		appErr = owner.ToAppError(err, fallback)
	}
	response.AppError(h.logger, c, appErr)
}
