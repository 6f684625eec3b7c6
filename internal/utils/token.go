package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateQRToken returns the opaque code embedded in a QR image. 32 random
// bytes keeps collisions out of reach; the unique index on qr_codes.code backs
// that up.
func GenerateQRToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
