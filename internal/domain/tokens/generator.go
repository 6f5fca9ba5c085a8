package tokens

import (
	"crypto/rand"
	"encoding/hex"
)

// Generator produces opaque token values.
type Generator func() (string, error)

// RandomHex returns 16 random bytes hex-encoded (128 bits).
func RandomHex() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
