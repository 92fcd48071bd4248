package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecurePassword(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"requested length", 20, 20},
		{"short requests are raised", 4, MinPasswordLength},
		{"zero", 0, MinPasswordLength},
		{"odd length", 33, 33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			password, err := GenerateSecurePassword(tt.length)
			require.NoError(t, err)
			assert.Len(t, password, tt.want)
			assert.NotContains(t, password, "+")
			assert.NotContains(t, password, "/")
		})
	}
}

func TestGenerateSecurePasswordIsRandom(t *testing.T) {
	a, err := GenerateSecurePassword(24)
	require.NoError(t, err)
	b, err := GenerateSecurePassword(24)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
