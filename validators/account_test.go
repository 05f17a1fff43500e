package validators

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmailValidator(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  error
	}{
		{"valid", "alice@example.com", nil},
		{"empty", "", ErrEmailEmpty},
		{"no at sign", "alice.example.com", ErrEmailInvalid},
		{"display name form", "Alice <alice@example.com>", ErrEmailInvalid},
		{"too long", strings.Repeat("a", 250) + "@x.com", ErrEmailTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, EmailValidator(tt.email), tt.want)
		})
	}
}

func TestPasswordValidator(t *testing.T) {
	require.NoError(t, PasswordValidator("longenough"))
	require.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	require.ErrorIs(t, PasswordValidator("short"), ErrPasswordTooShort)
	require.ErrorIs(t, PasswordValidator(strings.Repeat("p", 256)), ErrPasswordTooLong)
}
