// Package hash pseudonymises personal data before it reaches the logs.
package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/pkg/errors"
)

// ComputeHmac256 computes HMAC-SHA256 and returns it hex encoded
func ComputeHmac256(message, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("hmac: empty secret")
	}

	h := hmac.New(sha256.New, []byte(secret))
	if _, err := h.Write([]byte(message)); err != nil {
		return "", errors.Wrap(err, "hmac.Write")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Email returns a stable pseudonym for an address.
// Case and surrounding spaces do not change the result.
func Email(email, secret string) (string, error) {
	sum, err := ComputeHmac256(strings.ToLower(strings.TrimSpace(email)), secret)
	if err != nil {
		return "", err
	}
	return sum[:16], nil
}
