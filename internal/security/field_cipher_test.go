package security

import (
	"encoding/base64"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c, err := NewFieldCipher("test-secret")
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	sealed, err := c.Encrypt("Budi Santoso")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if sealed == "Budi Santoso" {
		t.Fatal("ciphertext must not equal plaintext")
	}

	plain, err := c.Decrypt(sealed)
	if err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}
	if plain != "Budi Santoso" {
		t.Errorf("expected round-trip, got %q", plain)
	}
}

func TestEncryptEmptyStaysEmpty(t *testing.T) {
	c, _ := NewFieldCipher("test-secret")

	sealed, err := c.Encrypt("")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}
	if sealed != "" {
		t.Errorf("empty optional fields must stay empty, got %q", sealed)
	}

	plain, err := c.Decrypt("")
	if err != nil || plain != "" {
		t.Errorf("empty decrypt must be a no-op, got %q, %v", plain, err)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	c, _ := NewFieldCipher("test-secret")

	a, _ := c.Encrypt("08123456789")
	b, _ := c.Encrypt("08123456789")
	if a == b {
		t.Error("two encryptions of the same value must differ (random nonce)")
	}
}

func TestDecryptRejectsTamperedCiphertext(t *testing.T) {
	c, _ := NewFieldCipher("test-secret")

	sealed, _ := c.Encrypt("08123456789")
	raw, _ := base64.StdEncoding.DecodeString(sealed)
	raw[len(raw)-1] ^= 0x01
	tampered := base64.StdEncoding.EncodeToString(raw)

	if _, err := c.Decrypt(tampered); err == nil {
		t.Error("tampered ciphertext must fail to decrypt")
	}
}

func TestDecryptRejectsWrongKey(t *testing.T) {
	c1, _ := NewFieldCipher("secret-one")
	c2, _ := NewFieldCipher("secret-two")

	sealed, _ := c1.Encrypt("Budi")
	if _, err := c2.Decrypt(sealed); err == nil {
		t.Error("a different secret must not decrypt the field")
	}
}

func TestDecryptOrSentinel(t *testing.T) {
	c, _ := NewFieldCipher("test-secret")

	sealed, _ := c.Encrypt("Budi")
	if got := c.DecryptOrSentinel(sealed, "[data corrupted]"); got != "Budi" {
		t.Errorf("expected plaintext, got %q", got)
	}
	if got := c.DecryptOrSentinel("not base64 at all!!", "[data corrupted]"); got != "[data corrupted]" {
		t.Errorf("expected sentinel, got %q", got)
	}
}

func TestNewFieldCipherRequiresSecret(t *testing.T) {
	if _, err := NewFieldCipher(""); err == nil {
		t.Error("an empty secret must be rejected")
	}
}
