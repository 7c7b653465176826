package helpers

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/pkg/errors"
)

// GenerateRandomString returns a URL safe random string of the given length.
func GenerateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", errors.Errorf("invalid random string length %d", length)
	}

	// Calculate the number of bytes needed to represent the string
	numBytes := (length * 6) / 8
	if (length*6)%8 != 0 {
		numBytes++
	}

	randomBytes := make([]byte, numBytes)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", errors.Wrap(err, "generating random string")
	}

	randomString := base64.RawURLEncoding.EncodeToString(randomBytes)

	// Trim extra characters
	return randomString[:length], nil
}
