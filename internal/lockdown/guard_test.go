package lockdown

import (
	"testing"

	"github.com/tillpoint/pos-terminal/pkg/config"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/security"
)

func newTestGuard(t *testing.T, pin string) *Guard {
	t.Helper()
	hash, err := security.HashPIN(pin, config.SecurityConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	})
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	guard, err := NewGuard(hash)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	return guard
}

func TestGuardLockUnlockCycle(t *testing.T) {
	t.Parallel()

	guard := newTestGuard(t, "1234")
	if guard.IsLocked() {
		t.Fatal("new guard should start unlocked")
	}

	guard.Lock()
	if !guard.IsLocked() {
		t.Fatal("guard should be locked")
	}

	if err := guard.Unlock("1234"); err != nil {
		t.Fatalf("Unlock: %v", err)
	}
	if guard.IsLocked() {
		t.Fatal("guard should be unlocked after correct pin")
	}
}

func TestGuardRejectsWrongPIN(t *testing.T) {
	t.Parallel()

	guard := newTestGuard(t, "1234")
	guard.Lock()

	err := guard.Unlock("9999")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if !guard.IsLocked() {
		t.Fatal("wrong pin must not unlock")
	}
}

func TestGuardUnlockWhenNotLocked(t *testing.T) {
	t.Parallel()

	guard := newTestGuard(t, "1234")
	if err := guard.Unlock("anything"); err != nil {
		t.Fatalf("unlocking an unlocked guard should be a no-op, got %v", err)
	}
}

func TestGuardRequiresHash(t *testing.T) {
	t.Parallel()

	if _, err := NewGuard(""); err == nil {
		t.Fatal("guard without a pin hash should be rejected")
	}
}
