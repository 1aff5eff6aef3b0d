package uid

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateGameID returns a random 32 character hex identifier.
func GenerateGameID() string {
	return randomHex(16)
}

// GenerateTokenID identifies one issued JWT.
func GenerateTokenID() string {
	return randomHex(12)
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
