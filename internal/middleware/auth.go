package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/internal/utils/jwt"
	"github.com/JS-Ranker/tester/pkg/apperrors"
	"github.com/JS-Ranker/tester/pkg/response"
	"github.com/JS-Ranker/tester/pkg/rut"
)

const principalKey = "principal"

var (
	// ErrPrincipalNotFound is returned by a PrincipalLoader for deleted owners.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrPrincipalInactive is returned by a PrincipalLoader for deactivated owners.
	ErrPrincipalInactive = errors.New("principal inactive")
)

// Principal is the authenticated owner behind a request.
type Principal struct {
	OwnerID uuid.UUID
	RUT     rut.RUT
}

// PrincipalLoader resolves the owner named in a verified access token.
type PrincipalLoader func(ctx context.Context, ownerID uuid.UUID) (Principal, error)

// Authenticate verifies the bearer token, loads the owner and stores the
// Principal in the context. Requests without a valid token are rejected with 401.
func Authenticate(issuer *jwt.Issuer, load PrincipalLoader, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			abort(logger, c, apperrors.Unauthorized("No token provided", nil))
			return
		}

		claims, err := issuer.VerifyAccess(token)
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, jwt.ErrExpiredToken) {
				message = "Token expired"
			}
			abort(logger, c, apperrors.Unauthorized(message, err))
			return
		}

		principal, err := load(c.Request.Context(), claims.OwnerID)
		switch {
		case err == nil:
		case errors.Is(err, ErrPrincipalNotFound):
			abort(logger, c, apperrors.Unauthorized("Owner no longer exists", err))
			return
		case errors.Is(err, ErrPrincipalInactive):
			abort(logger, c, apperrors.Forbidden("Owner account is inactive", err))
			return
		default:
			abort(logger, c, apperrors.New("Internal server error", http.StatusInternalServerError, apperrors.ErrInternal, err))
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the owner set by Authenticate.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return Principal{}, false
	}
	principal, ok := value.(Principal)
	return principal, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abort(logger *slog.Logger, c *gin.Context, err *apperrors.AppError) {
	response.AppError(logger, c, err)
	c.Abort()
}
