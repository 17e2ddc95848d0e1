package password_test

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"clinic/shared/password"
)

func TestHash(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := password.Hash("correct horse battery staple")
		if err != nil {
			t.Fatalf("Hash() failed: %v", err)
		}

		if hash == "" {
			t.Error("Hash() returned an empty hash")
		}

		if !strings.HasPrefix(hash, "$2a$") {
			t.Errorf("Hash() returned a non-bcrypt hash: %s", hash)
		}

		if hash == "correct horse battery staple" {
			t.Error("Hash() returned the plaintext password")
		}
	})

	t.Run("produces distinct hashes for the same password", func(t *testing.T) {
		first, err := password.Hash("same-password")
		if err != nil {
			t.Fatalf("Hash() failed: %v", err)
		}

		second, err := password.Hash("same-password")
		if err != nil {
			t.Fatalf("Hash() failed: %v", err)
		}

		if first == second {
			t.Error("expected salted hashes to differ")
		}
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		hash, err := password.Hash("")
		if err == nil {
			t.Error("expected an error for an empty password")
		}

		if hash != "" {
			t.Errorf("expected no hash for an empty password, got %s", hash)
		}
	})

	t.Run("rejects a password over the bcrypt length limit", func(t *testing.T) {
		_, err := password.Hash(strings.Repeat("a", 73))
		if !errors.Is(err, bcrypt.ErrPasswordTooLong) {
			t.Errorf("expected bcrypt.ErrPasswordTooLong, got %v", err)
		}
	})
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("secret-password")
	if err != nil {
		t.Fatalf("Hash() failed: %v", err)
	}

	t.Run("accepts the matching password", func(t *testing.T) {
		if err := password.Verify("secret-password", hash); err != nil {
			t.Errorf("Verify() failed for the matching password: %v", err)
		}
	})

	t.Run("rejects a mismatched password", func(t *testing.T) {
		err := password.Verify("wrong-password", hash)
		if !errors.Is(err, password.ErrInvalidPassword) {
			t.Errorf("expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("rejects an empty password", func(t *testing.T) {
		err := password.Verify("", hash)
		if !errors.Is(err, password.ErrInvalidPassword) {
			t.Errorf("expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("rejects an empty hash", func(t *testing.T) {
		err := password.Verify("secret-password", "")
		if !errors.Is(err, password.ErrInvalidPassword) {
			t.Errorf("expected ErrInvalidPassword, got %v", err)
		}
	})

	t.Run("surfaces a malformed hash", func(t *testing.T) {
		err := password.Verify("secret-password", "not-a-bcrypt-hash")
		if err == nil {
			t.Error("expected an error for a malformed hash")
		}

		if errors.Is(err, password.ErrInvalidPassword) {
			t.Error("a malformed hash is not a password mismatch")
		}
	})
}
