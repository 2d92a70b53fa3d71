package owner

import "errors"

var (
	ErrOwnerNotFound      = errors.New("owner not found")
	ErrRUTTaken           = errors.New("an owner with this RUT already exists")
	ErrInvalidRUT         = errors.New("invalid RUT")
	ErrInvalidName        = errors.New("full name must be between 2 and 80 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrWeakPassword       = errors.New("password is too short")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInactive           = errors.New("owner account is inactive")
	ErrForbidden          = errors.New("owners can only access their own profile")
	ErrNothingToUpdate    = errors.New("no fields to update")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrCurrentPasswordReq = errors.New("current password is required to set a new one")
)
