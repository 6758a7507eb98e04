package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Verifier checks HS256 signatures, audience and expiry against a shared secret.
// It holds no mutable state and is safe for concurrent use.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) (*Verifier, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Verifier{
		secret: []byte(secret),
	}, nil
}

/* ===================== VERIFY TOKEN ===================== */

// Verify decodes credential and validates it at time now.
// Failures are always *Error with KindExpired, KindMalformed or KindInternal.
func (v *Verifier) Verify(credential string, now time.Time) (ClaimSet, error) {
	if v == nil || len(v.secret) == 0 {
		return ClaimSet{}, internalf("verifier is not configured with a signing secret")
	}

	// Zero leeway: a token one second past exp is expired.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(RequiredAudience),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	var claims ClaimSet
	_, err := parser.ParseWithClaims(credential, &claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return ClaimSet{}, classify(err)
	}
	return claims, nil
}

// classify maps golang-jwt errors onto the auth taxonomy.
// Key faults come first: they mean the process is misconfigured, not that the caller lied.
func classify(err error) *Error {
	switch {
	case errors.Is(err, jwt.ErrInvalidKey), errors.Is(err, jwt.ErrInvalidKeyType):
		return newError(KindInternal, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return newError(KindExpired, err)
	default:
		return newError(KindMalformed, err)
	}
}
