package rut

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// RUT is a validated identifier in canonical form: body without leading zeros
// and an upper-case check digit. The zero value is not a valid RUT.
type RUT struct {
	body  string
	check byte
}

// Parse validates s and returns its canonical RUT.
func Parse(s string) (RUT, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return RUT{}, ErrEmpty
	}

	normalized := Normalize(trimmed)
	if len(normalized) < MinLength {
		return RUT{}, ErrTooShort
	}
	if !IsValid(normalized) {
		return RUT{}, ErrInvalid
	}

	body, check := split(normalized)
	body = strings.TrimLeft(body, "0")
	// zero padding must not be what makes the identifier long enough
	if len(body)+1 < MinLength {
		return RUT{}, ErrTooShort
	}
	if len(body)+1 > MaxLength {
		return RUT{}, ErrTooLong
	}
	return RUT{body: body, check: upper(check)}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and fixtures.
func MustParse(s string) RUT {
	r, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("rut: MustParse(%q): %v", s, err))
	}
	return r
}

// Body returns the numeric part without separators.
func (r RUT) Body() string { return r.body }

// Verifier returns the check digit.
func (r RUT) Verifier() string {
	if r.IsZero() {
		return ""
	}
	return string(r.check)
}

// Normalized returns body and check digit without separators, as stored.
func (r RUT) Normalized() string {
	if r.IsZero() {
		return ""
	}
	return r.body + string(r.check)
}

// String returns the display form.
func (r RUT) String() string {
	if r.IsZero() {
		return ""
	}
	return Format(r.Normalized())
}

// IsZero reports whether r is the zero value.
func (r RUT) IsZero() bool {
	return r.body == ""
}

// MarshalJSON encodes the display form.
func (r RUT) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts any format Parse accepts.
func (r *RUT) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer, storing the normalized form.
func (r RUT) Value() (driver.Value, error) {
	if r.IsZero() {
		return nil, nil
	}
	return r.Normalized(), nil
}

// Scan implements sql.Scanner.
func (r *RUT) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*r = RUT{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("rut: unsupported scan type %T", value)
	}

	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("rut: scan %q: %w", s, err)
	}
	*r = parsed
	return nil
}
