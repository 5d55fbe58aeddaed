package identity

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	saltLen          = 32
)

// HashPassword derives a salted PBKDF2 digest for storage on a profile
// record. A fresh salt is generated per call.
func HashPassword(password string) (hash, salt string, err error) {
	raw := make([]byte, saltLen)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)
	return digest(password, salt), salt, nil
}

// VerifyPassword checks a login attempt against the stored digest in
// constant time.
func VerifyPassword(password, salt, hash string) bool {
	return subtle.ConstantTimeCompare([]byte(digest(password, salt)), []byte(hash)) == 1
}

func digest(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
	return hex.EncodeToString(key)
}
