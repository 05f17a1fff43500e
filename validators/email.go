// Package validators holds the request-level input checks shared by the
// account and media endpoints
package validators

import (
	"errors"
	"net/mail"
)

// RFC 5321 path limit
const maxEmailLen = 254

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
	ErrEmailTooLong = errors.New("email address is too long")
)

// EmailValidator accepts bare addresses only. Display-name forms like
// "Alice <alice@example.com>" parse fine but the address doubles as the
// account identity here, so they are rejected.
func EmailValidator(e string) error {
	if e == "" {
		return ErrEmailEmpty
	}

	if len(e) > maxEmailLen {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return ErrEmailInvalid
	}

	return nil
}
