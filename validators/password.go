package validators

import "errors"

const (
	minPasswordLen = 8
	maxPasswordLen = 255
)

var (
	ErrPasswordEmpty    = errors.New("no password provided")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password is too long")
)

// PasswordValidator only enforces length bounds; composition rules are a
// usability tax the hash doesn't need.
func PasswordValidator(p string) error {
	switch {
	case p == "":
		return ErrPasswordEmpty
	case len(p) < minPasswordLen:
		return ErrPasswordTooShort
	case len(p) > maxPasswordLen:
		return ErrPasswordTooLong
	}

	return nil
}
