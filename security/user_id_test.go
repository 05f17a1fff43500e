package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveUserID(t *testing.T) {
	id := DeriveUserID("someone@example.com")
	require.Len(t, id, 16)

	// Case and whitespace don't create new identities
	require.Equal(t, id, DeriveUserID("SOMEONE@example.com"))
	require.Equal(t, id, DeriveUserID("  someone@example.com "))

	require.NotEqual(t, id, DeriveUserID("someone-else@example.com"))
}
