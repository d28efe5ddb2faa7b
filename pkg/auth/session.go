package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims Clerk puts in a session token. Only sub is
// relied on; the profile claims are present when the session template adds
// them.
type SessionClaims struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates session tokens against the JWKS provider.
type Verifier struct {
	keys   *Provider
	issuer string
}

func NewVerifier(keys *Provider, issuer string) *Verifier {
	return &Verifier{keys: keys, issuer: issuer}
}

// Verify parses and validates a token and returns its claims. The token
// must be RS256, unexpired, carry a subject, and match the issuer when one
// is configured.
func (v *Verifier) Verify(tokenString string) (*SessionClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keys.KeyFunc, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid session token: missing subject")
	}
	return claims, nil
}
