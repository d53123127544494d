// Package auth holds local token checks that run before the remote
// verification call.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/painstats-backend/internal/domain"
)

// Precheck rejects bearer tokens that cannot possibly pass remote
// verification: malformed JWTs and JWTs whose exp claim is in the past.
// The signature is NOT checked; the verification service owns the key.
type Precheck struct {
	parser *jwt.Parser
	now    func() time.Time
	leeway time.Duration
}

// NewPrecheck creates a Precheck that tolerates the given clock skew on exp.
func NewPrecheck(leeway time.Duration) *Precheck {
	return &Precheck{
		parser: jwt.NewParser(),
		now:    time.Now,
		leeway: leeway,
	}
}

// Check returns nil when the token is a well-formed JWT that has not expired.
// Any rejection wraps domain.ErrInvalidToken.
func (p *Precheck) Check(token string) error {
	if token == "" {
		return fmt.Errorf("precheck: empty token: %w", domain.ErrInvalidToken)
	}

	var claims jwt.RegisteredClaims
	if _, _, err := p.parser.ParseUnverified(token, &claims); err != nil {
		return fmt.Errorf("precheck: %v: %w", err, domain.ErrInvalidToken)
	}

	if claims.ExpiresAt != nil && p.now().After(claims.ExpiresAt.Add(p.leeway)) {
		return fmt.Errorf("precheck: %v: %w", jwt.ErrTokenExpired, domain.ErrInvalidToken)
	}

	return nil
}
