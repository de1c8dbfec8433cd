package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/fernet/fernet-go"
)

const sealedPrefix = "fernet:"

// NoteCipher encrypts free-text notes before they are stored.
// A cipher built without keys passes values through unchanged.
type NoteCipher struct {
	keys []*fernet.Key
}

// NewNoteCipher parses a comma-separated list of base64 fernet keys. The first
// key encrypts; all keys are tried for decryption so that old keys can be
// rotated out.
func NewNoteCipher(keyList string) (*NoteCipher, error) {
	c := &NoteCipher{}
	for _, raw := range strings.Split(keyList, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		key, err := fernet.DecodeKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid notes encryption key: %w", err)
		}
		c.keys = append(c.keys, key)
	}
	return c, nil
}

// Enabled reports whether the cipher encrypts.
func (c *NoteCipher) Enabled() bool {
	return c != nil && len(c.keys) > 0
}

// Seal encrypts plaintext. Without keys it returns plaintext.
func (c *NoteCipher) Seal(plaintext string) (string, error) {
	if !c.Enabled() {
		return plaintext, nil
	}
	tok, err := fernet.EncryptAndSign([]byte(plaintext), c.keys[0])
	if err != nil {
		return "", fmt.Errorf("failed to encrypt note: %w", err)
	}
	return sealedPrefix + string(tok), nil
}

// Open decrypts a value produced by Seal. Values stored before encryption was
// enabled lack the prefix and are returned as-is.
func (c *NoteCipher) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if !c.Enabled() {
		return "", fmt.Errorf("note is encrypted but no key is configured")
	}
	msg := fernet.VerifyAndDecrypt([]byte(strings.TrimPrefix(stored, sealedPrefix)), time.Duration(0), c.keys)
	if msg == nil {
		return "", fmt.Errorf("failed to decrypt note: no matching key")
	}
	return string(msg), nil
}
