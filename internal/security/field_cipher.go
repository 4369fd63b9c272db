package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// keyContext salts the derivation so the field key is never the raw secret.
const keyContext = "beacon-contact-fields-v1"

// FieldCipher encrypts the optional contact fields of a report before they
// leave the device. The secret is supplied by configuration; there is no
// compiled-in default.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher derives a 32-byte AES-GCM key from the configured secret.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if secret == "" {
		return nil, errors.New("field encryption secret is empty")
	}

	key := pbkdf2.Key([]byte(secret), []byte(keyContext), 4096, 32, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals a plaintext field. Empty input stays empty so optional
// fields remain absent rather than becoming ciphertext of "".
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	payload := append(nonce, ciphertext...)
	return base64.StdEncoding.EncodeToString(payload), nil
}

// Decrypt opens a sealed field.
func (c *FieldCipher) Decrypt(ciphertextB64 string) (string, error) {
	if ciphertextB64 == "" {
		return "", nil
	}

	payload, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", err
	}

	ns := c.aead.NonceSize()
	if len(payload) < ns {
		return "", errors.New("ciphertext too short")
	}
	nonce, ct := payload[:ns], payload[ns:]

	pt, err := c.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// DecryptOrSentinel decrypts a field for display. A corrupt or undecryptable
// value yields the sentinel instead of failing the surrounding operation.
func (c *FieldCipher) DecryptOrSentinel(ciphertextB64 string, sentinel string) string {
	pt, err := c.Decrypt(ciphertextB64)
	if err != nil {
		return sentinel
	}
	return pt
}
