package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the session token claims for the Sitem chat backend.
// A token asserts the subject's identity and role for a bounded time; it is
// stateless, so role or ban changes only take effect on already-issued
// tokens once they expire.
type Payload struct {
	// StandardClaims embeds the JWT standard fields such as ExpiresAt,
	// IssuedAt, and Issuer used for token validity checks.
	jwt.StandardClaims

	// ID is the unique identifier of the account the token was issued to.
	ID string `json:"id"`

	// Role is the account role at issue time ("user", "admin" or "root").
	Role string `json:"role"`
}
