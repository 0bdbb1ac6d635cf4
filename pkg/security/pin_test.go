package security

import (
	"strings"
	"testing"

	"github.com/tillpoint/pos-terminal/pkg/config"
)

func testSecurityConfig() config.SecurityConfig {
	// Small parameters keep the test fast; clamps enforce sane floors.
	return config.SecurityConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
}

func TestHashAndVerifyPIN(t *testing.T) {
	t.Parallel()

	encoded, err := HashPIN("4471", testSecurityConfig())
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %s", encoded)
	}

	ok, err := VerifyPIN("4471", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !ok {
		t.Fatal("expected matching pin to verify")
	}

	ok, err = VerifyPIN("0000", encoded)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if ok {
		t.Fatal("expected mismatched pin to fail")
	}
}

func TestVerifyPINRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := VerifyPIN("1234", "not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestHashPINRejectsEmpty(t *testing.T) {
	t.Parallel()

	if _, err := HashPIN("", testSecurityConfig()); err == nil {
		t.Fatal("expected error for empty pin")
	}
}
