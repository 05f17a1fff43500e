package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandStr(t *testing.T) {
	require.Empty(t, RandStr(0))

	s := RandStr(10)
	require.Len(t, s, 10)

	for _, r := range s {
		require.True(t, strings.ContainsRune(alphabet, r))
	}

	// Two 32-char draws colliding means the source is broken
	require.NotEqual(t, RandStr(32), RandStr(32))
}
