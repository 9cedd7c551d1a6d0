package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SessionKeySize is the length of the HMAC key used to sign session cookies.
const SessionKeySize = 32

// LoadSessionKey returns the cookie signing key. A non-empty secret is
// stretched to SessionKeySize bytes with SHA-256. Otherwise the key is read
// from file, which is created with a random key on first start.
func LoadSessionKey(file, secret string) ([]byte, error) {
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		return sum[:], nil
	}
	if file == "" {
		return nil, fmt.Errorf("session key: no secret and no key file configured")
	}

	file = filepath.Clean(file)
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		key, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("session key: decode %s: %w", file, err)
		}
		if len(key) < SessionKeySize {
			return nil, fmt.Errorf("session key: %s holds %d bytes, need %d", file, len(key), SessionKeySize)
		}
		return key, nil
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("session key: read %s: %w", file, err)
	}

	key := make([]byte, SessionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("session key: generate: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(file), 0750); err != nil {
		return nil, fmt.Errorf("session key: %w", err)
	}
	if err := os.WriteFile(file, []byte(base64.RawURLEncoding.EncodeToString(key)), 0600); err != nil {
		return nil, fmt.Errorf("session key: write %s: %w", file, err)
	}
	return key, nil
}
