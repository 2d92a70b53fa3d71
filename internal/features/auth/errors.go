package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid RUT or password")
	ErrInactiveAccount    = errors.New("your account is inactive")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
