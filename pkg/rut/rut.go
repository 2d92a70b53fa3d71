// Package rut validates and formats Chilean national identifiers (RUT).
//
// A RUT is a numeric body followed by a modulo-11 check digit, displayed as
// 12.345.678-5. The check digit is 0-9 or K.
package rut

import (
	"errors"
	"strings"
)

// MinLength is the shortest normalized identifier (body plus check digit) accepted.
const MinLength = 7

// MaxLength is the longest canonical identifier Parse accepts. It matches the
// width of the stored column.
const MaxLength = 12

var (
	ErrEmpty       = errors.New("rut is required")
	ErrTooShort    = errors.New("rut is too short")
	ErrTooLong     = errors.New("rut is too long")
	ErrInvalid     = errors.New("rut is invalid")
	ErrInvalidBody = errors.New("rut body must contain only digits")
)

// Normalize removes the thousands separators and the check-digit separator.
func Normalize(s string) string {
	if !strings.ContainsAny(s, ".-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' || s[i] == '-' {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// CheckDigit computes the expected check digit for a digits-only body.
func CheckDigit(body string) (byte, error) {
	if body == "" || !isDigits(body) {
		return 0, ErrInvalidBody
	}

	sum := 0
	multiplier := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * multiplier
		if multiplier < 7 {
			multiplier++
		} else {
			multiplier = 2
		}
	}

	switch remainder := 11 - sum%11; remainder {
	case 11:
		return '0', nil
	case 10:
		return 'K', nil
	default:
		return byte('0' + remainder), nil
	}
}

// IsValid reports whether candidate is a well-formed RUT whose check digit
// matches its body. It never panics and accepts any string.
func IsValid(candidate string) bool {
	normalized := Normalize(candidate)
	if len(normalized) < MinLength {
		return false
	}

	body, check := split(normalized)
	expected, err := CheckDigit(body)
	if err != nil {
		return false
	}
	return expected == upper(check)
}

// Format renders candidate in display form (12.345.678-5). The check digit
// keeps its original case. Callers are expected to validate first; input
// shorter than two characters or with a non-digit body is returned with
// separators stripped and nothing else changed.
func Format(candidate string) string {
	normalized := Normalize(candidate)
	if len(normalized) < 2 {
		return normalized
	}

	body, check := split(normalized)
	if !isDigits(body) {
		return normalized
	}

	var b strings.Builder
	b.Grow(len(body) + len(body)/3 + 2)
	for i := 0; i < len(body); i++ {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(body[i])
	}
	b.WriteByte('-')
	b.WriteByte(check)
	return b.String()
}

func split(normalized string) (string, byte) {
	last := len(normalized) - 1
	return normalized[:last], normalized[last]
}

func upper(c byte) byte {
	if c == 'k' {
		return 'K'
	}
	return c
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
