package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tillpoint/pos-terminal/internal/lockdown"
	"github.com/tillpoint/pos-terminal/pkg/config"
	"github.com/tillpoint/pos-terminal/pkg/security"
)

func newLockedGuard(t *testing.T, pin string) *lockdown.Guard {
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
	guard, err := lockdown.NewGuard(hash)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	guard.Lock()
	return guard
}

func TestUnlock(t *testing.T) {
	logg := testLogger()

	t.Run("correct pin", func(t *testing.T) {
		guard := newLockedGuard(t, "4321")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/unlock", strings.NewReader(`{"pin":"4321"}`))
		rec := httptest.NewRecorder()
		Unlock(guard, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if guard.IsLocked() {
			t.Fatal("guard should be unlocked")
		}
	})

	t.Run("wrong pin", func(t *testing.T) {
		guard := newLockedGuard(t, "4321")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/unlock", strings.NewReader(`{"pin":"0000"}`))
		rec := httptest.NewRecorder()
		Unlock(guard, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", rec.Code)
		}
		if !guard.IsLocked() {
			t.Fatal("guard must stay locked")
		}
	})

	t.Run("missing pin", func(t *testing.T) {
		guard := newLockedGuard(t, "4321")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/unlock", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		Unlock(guard, logg).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}
