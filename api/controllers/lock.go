package controllers

import (
	"net/http"

	"github.com/tillpoint/pos-terminal/api/responses"
	"github.com/tillpoint/pos-terminal/api/validators"
	"github.com/tillpoint/pos-terminal/internal/lockdown"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

type unlockRequest struct {
	PIN string `json:"pin" validate:"required,min=4,max=12"`
}

type lockStatusResponse struct {
	Locked bool `json:"locked"`
}

// LockStatus reports whether the register is locked.
func LockStatus(guard *lockdown.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, lockStatusResponse{Locked: guard.IsLocked()})
	}
}

// Lock freezes the register.
func Lock(guard *lockdown.Guard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guard.Lock()
		if logg != nil {
			logg.Info(r.Context(), "terminal locked")
		}
		responses.WriteSuccess(w, lockStatusResponse{Locked: true})
	}
}

// Unlock releases the register when the PIN matches.
func Unlock(guard *lockdown.Guard, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload unlockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := guard.Unlock(payload.PIN); err != nil {
			if logg != nil && pkgerrors.As(err) != nil && pkgerrors.As(err).Code() == pkgerrors.CodeForbidden {
				logg.Warn(r.Context(), "failed unlock attempt")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			logg.Info(r.Context(), "terminal unlocked")
		}
		responses.WriteSuccess(w, lockStatusResponse{Locked: false})
	}
}
