// Package lockdown lets an operator freeze the register when stepping
// away. While locked, every cart and checkout operation is refused until
// the unlock PIN is entered.
package lockdown

import (
	"fmt"
	"sync/atomic"

	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/security"
)

// Guard holds the lock state for one register. The PIN hash is provisioned
// by the back office; a guard without one can still lock but never unlock,
// so construction fails instead.
type Guard struct {
	pinHash string
	locked  atomic.Bool
}

func NewGuard(pinHash string) (*Guard, error) {
	if pinHash == "" {
		return nil, fmt.Errorf("unlock pin hash is required")
	}
	return &Guard{pinHash: pinHash}, nil
}

// Lock freezes the register. Locking an already locked register is a no-op.
func (g *Guard) Lock() {
	g.locked.Store(true)
}

// Unlock releases the register when the PIN matches.
func (g *Guard) Unlock(pin string) error {
	if !g.locked.Load() {
		return nil
	}
	if pin == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "pin is required")
	}
	ok, err := security.VerifyPIN(pin, g.pinHash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying pin")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "incorrect pin")
	}
	g.locked.Store(false)
	return nil
}

// IsLocked reports the current state.
func (g *Guard) IsLocked() bool {
	return g.locked.Load()
}
