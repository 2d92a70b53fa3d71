package owner

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/internal/middleware"
	"github.com/JS-Ranker/tester/pkg/apperrors"
	"github.com/JS-Ranker/tester/pkg/metrics"
	"github.com/JS-Ranker/tester/pkg/request"
	"github.com/JS-Ranker/tester/pkg/response"
	"github.com/JS-Ranker/tester/pkg/rut"
)

// Handler processes owner profile requests.
type Handler struct {
	store             Store
	logger            *slog.Logger
	minPasswordLength int
	onDelete          []func(context.Context, uuid.UUID) error
}

// NewHandler constructs an owner handler.
func NewHandler(store Store, logger *slog.Logger, minPasswordLength int) *Handler {
	return &Handler{store: store, logger: logger, minPasswordLength: minPasswordLength}
}

// PrincipalLoader adapts store for the authentication middleware.
func PrincipalLoader(store Store) middleware.PrincipalLoader {
	return func(ctx context.Context, id uuid.UUID) (middleware.Principal, error) {
		o, err := store.Get(ctx, id)
		if errors.Is(err, ErrOwnerNotFound) {
			return middleware.Principal{}, middleware.ErrPrincipalNotFound
		}
		if err != nil {
			return middleware.Principal{}, err
		}
		if !o.Active {
			return middleware.Principal{}, middleware.ErrPrincipalInactive
		}
		return middleware.Principal{OwnerID: o.ID, RUT: o.RUT}, nil
	}
}

// OnDelete registers fn to run after an owner is deleted. Stores without
// foreign keys use it to remove dependent records.
func (h *Handler) OnDelete(fn func(context.Context, uuid.UUID) error) {
	h.onDelete = append(h.onDelete, fn)
}

// Me returns the authenticated owner's profile.
func (h *Handler) Me(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	o, err := h.store.Get(c.Request.Context(), principal.OwnerID)
	if err != nil {
		h.respondError(c, err, "failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, o, "", nil)
}

// GetByRUT returns an owner profile looked up by RUT. Owners may only look
// themselves up.
func (h *Handler) GetByRUT(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	id, err := rut.Parse(c.Param("rut"))
	metrics.RecordRUTValidation("path", err == nil)
	if err != nil {
		h.respondError(c, errors.Join(ErrInvalidRUT, err), "invalid RUT")
		return
	}

	if id != principal.RUT {
		h.respondError(c, ErrForbidden, "forbidden")
		return
	}

	o, err := h.store.GetByRUT(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "failed to load profile")
		return
	}

	response.Success(c, http.StatusOK, o, "", nil)
}

type updateRequest struct {
	FullName        *string `json:"fullName"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"currentPassword"`
}

// UpdateMe edits the authenticated owner's profile.
func (h *Handler) UpdateMe(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	var req updateRequest
	if appErr := request.BindJSON(c, &req, "invalid profile payload"); appErr != nil {
		response.AppError(h.logger, c, appErr)
		return
	}

	ctx := c.Request.Context()
	current, err := h.store.Get(ctx, principal.OwnerID)
	if err != nil {
		h.respondError(c, err, "failed to load profile")
		return
	}

	updated, err := Update(ctx, h.store, current, UpdateInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		CurrentPassword: req.CurrentPassword,
	}, h.minPasswordLength)
	if err != nil {
		h.respondError(c, err, "failed to update profile")
		return
	}

	response.Success(c, http.StatusOK, updated, "Profile updated", nil)
}

// DeleteMe removes the authenticated owner and, through the schema, their pets.
func (h *Handler) DeleteMe(c *gin.Context) {
	principal, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "Authentication required", nil)
		return
	}

	if err := h.store.Delete(c.Request.Context(), principal.OwnerID); err != nil {
		h.respondError(c, err, "failed to delete account")
		return
	}

	for _, fn := range h.onDelete {
		if err := fn(c.Request.Context(), principal.OwnerID); err != nil {
			h.logger.Error("owner delete hook failed",
				slog.String("owner_id", principal.OwnerID.String()),
				slog.String("error", err.Error()))
		}
	}

	response.Success(c, http.StatusOK, true, "Account deleted", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	response.AppError(h.logger, c, ToAppError(err, fallback))
}

// ToAppError maps owner errors to HTTP errors. Other packages reuse it for
// errors that surface from owner operations.
func ToAppError(err error, fallback string) *apperrors.AppError {
	switch {
	case errors.Is(err, ErrOwnerNotFound):
		return apperrors.NotFound("Owner not found", err)
	case errors.Is(err, ErrRUTTaken):
		return apperrors.Conflict("An owner with this RUT is already registered", err).
			WithFields(map[string]string{"rut": "is already registered"})
	case errors.Is(err, ErrInvalidRUT):
		return apperrors.Validation("Invalid RUT", map[string]string{"rut": "must be a valid RUT (e.g. 12.345.678-5)"}, err)
	case errors.Is(err, ErrInvalidName):
		return apperrors.Validation("Invalid full name", map[string]string{"fullName": "must be between 2 and 80 characters"}, err)
	case errors.Is(err, ErrInvalidEmail):
		return apperrors.Validation("Invalid email format", map[string]string{"email": "must be a valid email"}, err)
	case errors.Is(err, ErrInvalidPhone):
		return apperrors.Validation("Invalid phone number", map[string]string{"phone": "must be a valid phone number"}, err)
	case errors.Is(err, ErrWeakPassword):
		return apperrors.Validation("Password is too short", map[string]string{"password": err.Error()}, err)
	case errors.Is(err, ErrPasswordMismatch):
		return apperrors.Validation("Passwords do not match", map[string]string{"confirmPassword": "must match password"}, err)
	case errors.Is(err, ErrCurrentPasswordReq):
		return apperrors.Validation("Current password is required", map[string]string{"currentPassword": "is required"}, err)
	case errors.Is(err, ErrNothingToUpdate):
		return apperrors.Validation("No fields to update", nil, err)
	case errors.Is(err, ErrWrongPassword):
		return apperrors.Unauthorized("Current password is incorrect", err)
	case errors.Is(err, ErrForbidden):
		return apperrors.Forbidden("You can only access your own profile", err)
	case errors.Is(err, ErrInactive):
		return apperrors.Forbidden("Your account is inactive", err)
	default:
		return apperrors.New(fallback, http.StatusInternalServerError, apperrors.ErrInternal, err)
	}
}
