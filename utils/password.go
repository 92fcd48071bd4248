package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MinPasswordLength is the shortest password GenerateSecurePassword returns
const MinPasswordLength = 12

// GenerateSecurePassword creates a random URL-safe password of the specified
// length, at least MinPasswordLength
func GenerateSecurePassword(length int) (string, error) {
	if length < MinPasswordLength {
		length = MinPasswordLength
	}

	// base64 yields 4 characters per 3 bytes
	b := make([]byte, (length*3)/4+3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	password := base64.RawURLEncoding.EncodeToString(b)
	return password[:length], nil
}
