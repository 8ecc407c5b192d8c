package validators

import (
	"errors"
	"strings"
)

const UsernameSuffix = ".gta"

var (
	ErrUsernameEmpty   = errors.New("no username provided")
	ErrUsernameInvalid = errors.New("username may only contain letters, numbers, dots and underscores")
	ErrUsernameLength  = errors.New("username must be between 3 and 30 characters long")
)

// NormalizeUsername trims and lower-cases u
func NormalizeUsername(u string) string {
	return strings.ToLower(strings.TrimSpace(u))
}

// UsernameValidator checks an already normalized username
func UsernameValidator(u string) error {
	if u == "" {
		return ErrUsernameEmpty
	}

	if len(u) < 3 || len(u) > 30 {
		return ErrUsernameLength
	}

	for _, r := range u {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '.' && r != '_' {
			return ErrUsernameInvalid
		}
	}

	return nil
}

// WithSuffix appends the platform suffix unless u already ends with it
func WithSuffix(u string) string {
	if strings.HasSuffix(u, UsernameSuffix) {
		return u
	}

	return u + UsernameSuffix
}

var (
	ErrPhoneInvalid   = errors.New("invalid phone number provided")
	ErrCountryInvalid = errors.New("invalid country provided")
)

// PhoneValidator accepts digits with optional separators and a leading +
func PhoneValidator(p string) error {
	digits := 0
	for i, r := range p {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0, r == ' ', r == '-', r == '(', r == ')':
		default:
			return ErrPhoneInvalid
		}
	}

	if digits < 7 || digits > 15 {
		return ErrPhoneInvalid
	}

	return nil
}

func CountryValidator(c string) error {
	if err := validate.Var(c, "required,max=64"); err != nil {
		return ErrCountryInvalid
	}

	return nil
}
