package otp

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	s := &Service{}

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := s.GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 1000000)

		seen[code] = true
	}

	// 50 draws from a million-code space should not all collide.
	assert.Greater(t, len(seen), 1)
}
