package security

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func setArgonConfig(t *testing.T, memoryMB, iterations, parallelism int) {
	t.Helper()

	viper.Set("security.argon_memory", memoryMB)
	viper.Set("security.argon_iterations", iterations)
	viper.Set("security.argon_parallelism", parallelism)
}

func TestArgonRoundTrip(t *testing.T) {
	setArgonConfig(t, 8, 1, 1)
	a := New()

	encoded, err := a.GenerateFromPassword("correct horse battery")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	ok, err := a.VerifyPasswd("correct horse battery", encoded)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = a.VerifyPasswd("wrong password", encoded)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestArgonParamsComeFromConfig(t *testing.T) {
	setArgonConfig(t, 16, 2, 1)
	a := New()

	require.Equal(t, uint32(16<<10), a.Memory)
	require.Equal(t, uint32(2), a.Iterations)
	require.Equal(t, uint8(1), a.Parallelism)
}

func TestArgonVerifyUsesParamsFromHash(t *testing.T) {
	setArgonConfig(t, 8, 1, 1)
	encoded, err := New().GenerateFromPassword("stable across upgrades")
	require.NoError(t, err)

	// Raising the configured cost must not invalidate old hashes
	setArgonConfig(t, 16, 2, 2)
	ok, err := New().VerifyPasswd("stable across upgrades", encoded)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestArgonVerifyRejectsMalformedHash(t *testing.T) {
	setArgonConfig(t, 8, 1, 1)
	a := New()

	for _, bad := range []string{
		"",
		"not a hash",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=8192,t=1,p=1$!!!$aGFzaA",
	} {
		ok, err := a.VerifyPasswd("anything", bad)
		require.Error(t, err)
		require.False(t, ok)
	}
}
