package candidate

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrUnset        = errors.New("value is not set")
	ErrUnknownField = errors.New("unknown field")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrInvalidPhone = errors.New("phone number must contain exactly 10 digits")
	ErrInvalidYears = errors.New("years of experience must be a non-negative whole number")
)

var (
	emailRegex    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	nonDigitRegex = regexp.MustCompile(`\D`)
)

const (
	phoneDigits         = 10
	maxCountryCodeDigit = 3
)

// Normalize validates a raw value for the field and returns its canonical
// string form. It never panics; every rejection is reported as an error
// wrapping one of the package sentinels.
func Normalize(field Field, raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("%s: %w", field, ErrUnset)
	}

	switch field {
	case FieldEmail:
		return normalizeEmail(value)
	case FieldPhone:
		return normalizePhone(value)
	case FieldYearsExperience:
		years, err := ParseYears(value)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(years), nil
	case FieldName, FieldDesiredPosition, FieldLocation, FieldTechStack:
		return value, nil
	default:
		return "", fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
}

func normalizeEmail(value string) (string, error) {
	email := strings.ToLower(value)
	if !emailRegex.MatchString(email) {
		return "", fmt.Errorf("%q: %w", value, ErrInvalidEmail)
	}
	return email, nil
}

// normalizePhone keeps the 10 subscriber digits. A leading "+" marks an
// international prefix of up to three digits which is dropped.
func normalizePhone(value string) (string, error) {
	digits := nonDigitRegex.ReplaceAllString(value, "")
	extra := len(digits) - phoneDigits
	if strings.HasPrefix(value, "+") && extra > 0 && extra <= maxCountryCodeDigit {
		digits = digits[extra:]
	}
	if len(digits) != phoneDigits {
		return "", fmt.Errorf("%q has %d digits: %w", value, len(digits), ErrInvalidPhone)
	}
	return digits, nil
}

// ParseYears coerces a numeric-looking string into a non-negative integer.
// Fractional values are truncated toward zero.
func ParseYears(value string) (int, error) {
	value = strings.TrimSpace(value)

	years, err := strconv.Atoi(value)
	if err != nil {
		f, ferr := strconv.ParseFloat(value, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 {
			return 0, fmt.Errorf("%q: %w", value, ErrInvalidYears)
		}
		years = int(f)
		if f < 0 {
			years = -1
		}
	}

	if years < 0 {
		return 0, fmt.Errorf("%q: %w", value, ErrInvalidYears)
	}

	return years, nil
}
