package middleware

import (
	"net/http"

	"github.com/tillpoint/pos-terminal/api/responses"
	"github.com/tillpoint/pos-terminal/internal/lockdown"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

// Lockdown refuses selling operations while the register is locked. The
// lock status and unlock endpoints are mounted outside this middleware so
// the operator can always get back in.
func Lockdown(guard *lockdown.Guard, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if guard != nil && guard.IsLocked() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeLocked, "terminal is locked"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
