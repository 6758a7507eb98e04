package auth

import (
	"time"

	"surreality-auth/internal/config"
)

// Authenticator turns a raw bearer credential into a validated AccountID.
// It is built once at startup and shared by every request.
type Authenticator struct {
	verifier *Verifier
	clock    func() time.Time
}

func NewAuthenticator(cfg config.AuthConfig) (*Authenticator, error) {
	v, err := NewVerifier(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	return &Authenticator{verifier: v, clock: time.Now}, nil
}

// Authenticate verifies the credential and extracts its account identifier.
// Any returned error is an *Error.
func (a *Authenticator) Authenticate(raw string) (AccountID, error) {
	if a == nil || a.verifier == nil {
		return "", internalf("authenticator is not initialized")
	}

	claims, err := a.verifier.Verify(raw, a.clock())
	if err != nil {
		return "", AsError(err)
	}

	id, err := ExtractAccountID(claims)
	if err != nil {
		return "", AsError(err)
	}
	return id, nil
}
