package owner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/JS-Ranker/tester/pkg/rut"
	"github.com/JS-Ranker/tester/pkg/types"
)

// Owner is a registered pet owner, identified by RUT.
type Owner struct {
	types.BaseModel

	RUT          rut.RUT `gorm:"type:varchar(12);not null;uniqueIndex;column:rut" json:"rut"`
	FullName     string  `gorm:"type:varchar(80);not null;column:full_name" json:"fullName"`
	Email        *string `gorm:"type:varchar(255);column:email" json:"email,omitempty"`
	Phone        *string `gorm:"type:varchar(20);column:phone" json:"phone,omitempty"`
	PasswordHash string  `gorm:"type:varchar(255);not null;column:password" json:"-"`
	RefreshToken *string `gorm:"type:varchar(64);column:refresh_token" json:"-"`
	Active       bool    `gorm:"type:boolean;not null;column:is_active" json:"isActive"`
}

// TableName overrides the default table name.
func (Owner) TableName() string { return "owners" }

const (
	minNameLength = 2
	maxNameLength = 80
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ]{6,18}$`)
)

// CreateInput carries data for registering an owner.
type CreateInput struct {
	RUT      string
	FullName string
	Email    *string
	Phone    *string
	Password string
}

// UpdateInput captures mutable profile fields. Nil means unchanged; an empty
// email or phone clears it.
type UpdateInput struct {
	FullName        *string
	Email           *string
	Phone           *string
	Password        *string
	CurrentPassword *string
}

// Create validates input, hashes the password and stores a new active owner.
func Create(ctx context.Context, store Store, input CreateInput, minPasswordLength int) (Owner, error) {
	id, err := rut.Parse(input.RUT)
	if err != nil {
		return Owner{}, fmt.Errorf("%w: %w", ErrInvalidRUT, err)
	}

	name, err := cleanName(input.FullName)
	if err != nil {
		return Owner{}, err
	}

	email, err := cleanEmail(input.Email)
	if err != nil {
		return Owner{}, err
	}

	phone, err := cleanPhone(input.Phone)
	if err != nil {
		return Owner{}, err
	}

	hash, err := hashPassword(input.Password, minPasswordLength)
	if err != nil {
		return Owner{}, err
	}

	o := Owner{
		RUT:          id,
		FullName:     name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
		Active:       true,
	}
	if err := store.Create(ctx, &o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

// Update applies input to o and persists it. Changing the password requires
// the current one and revokes the stored refresh token.
func Update(ctx context.Context, store Store, o Owner, input UpdateInput, minPasswordLength int) (Owner, error) {
	changed := false
	passwordChanged := false

	if input.FullName != nil {
		name, err := cleanName(*input.FullName)
		if err != nil {
			return Owner{}, err
		}
		o.FullName = name
		changed = true
	}

	if input.Email != nil {
		email, err := cleanEmail(input.Email)
		if err != nil {
			return Owner{}, err
		}
		o.Email = email
		changed = true
	}

	if input.Phone != nil {
		phone, err := cleanPhone(input.Phone)
		if err != nil {
			return Owner{}, err
		}
		o.Phone = phone
		changed = true
	}

	if input.Password != nil {
		if input.CurrentPassword == nil {
			return Owner{}, ErrCurrentPasswordReq
		}
		if !o.ComparePassword(*input.CurrentPassword) {
			return Owner{}, ErrWrongPassword
		}
		hash, err := hashPassword(*input.Password, minPasswordLength)
		if err != nil {
			return Owner{}, err
		}
		o.PasswordHash = hash
		changed = true
		passwordChanged = true
	}

	if !changed {
		return Owner{}, ErrNothingToUpdate
	}

	if err := store.Update(ctx, &o); err != nil {
		return Owner{}, err
	}
	if passwordChanged {
		if err := store.SetRefreshToken(ctx, o.ID, nil); err != nil {
			return Owner{}, err
		}
		o.RefreshToken = nil
	}
	return o, nil
}

// ComparePassword reports whether password matches the stored hash.
func (o Owner) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)) == nil
}

func hashPassword(password string, minLength int) (string, error) {
	if utf8.RuneCountInString(password) < minLength {
		return "", fmt.Errorf("%w: minimum is %d characters", ErrWeakPassword, minLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: maximum is 72 bytes", ErrWeakPassword)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func cleanName(name string) (string, error) {
	trimmed := strings.Join(strings.Fields(name), " ")
	n := utf8.RuneCountInString(trimmed)
	if n < minNameLength || n > maxNameLength {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func cleanEmail(email *string) (*string, error) {
	if email == nil {
		return nil, nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*email))
	if trimmed == "" {
		return nil, nil
	}
	if len(trimmed) > 255 || !emailRegex.MatchString(trimmed) {
		return nil, ErrInvalidEmail
	}
	return &trimmed, nil
}

func cleanPhone(phone *string) (*string, error) {
	if phone == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*phone)
	if trimmed == "" {
		return nil, nil
	}
	if !phoneRegex.MatchString(trimmed) {
		return nil, ErrInvalidPhone
	}
	return &trimmed, nil
}
