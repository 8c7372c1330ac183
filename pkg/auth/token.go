package auth

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenBytes = 32

// NewSessionToken генерирует непредсказуемый opaque-токен сессии.
func NewSessionToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
