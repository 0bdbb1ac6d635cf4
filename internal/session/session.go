// Package session carries the authenticated operator through request
// contexts so downstream clients can act on the operator's behalf.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/tillpoint/pos-terminal/pkg/enums"
)

type contextKey struct{}

// Session identifies the operator a request runs as. Token is the raw
// bearer credential re-used for upstream catalog and sales calls.
type Session struct {
	OperatorID uuid.UUID
	Role       enums.OperatorRole
	TerminalID string
	Token      string
}

// WithContext attaches the session to ctx.
func WithContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session attached to ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
