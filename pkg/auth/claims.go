package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tillpoint/pos-terminal/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	OperatorID uuid.UUID
	Role       enums.OperatorRole
	TerminalID *string
}

// AccessTokenClaims represents the typed JWT the back office issues to a
// signed-in operator. The terminal only reads these; it never mints them in
// production.
type AccessTokenClaims struct {
	OperatorID uuid.UUID          `json:"operator_id"`
	Role       enums.OperatorRole `json:"role"`
	TerminalID *string            `json:"terminal_id,omitempty"`
	jwt.RegisteredClaims
}
