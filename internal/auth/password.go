package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

// passwordAlphabet is the fixed alphabet for generated passwords
const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GeneratePassword creates a high-entropy random password of the given
// length over the fixed alphabet
func GeneratePassword(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("password length must be positive")
	}
	alphabetLen := big.NewInt(int64(len(passwordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate password: %w", err)
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// HashPassword computes the keyed HMAC-SHA256 of a password, hex encoded.
// The result is both the stored credential and the client-side token.
func HashPassword(secret, password string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}
