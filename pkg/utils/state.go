package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateState returns a random url-safe value for the OAuth state cookie.
func GenerateState(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
