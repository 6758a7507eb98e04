package auth

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RequiredAudience is the audience every accepted token must carry.
const RequiredAudience = "authenticated"

// Claim holds a raw claim value. Its JSON type is only checked when it is read,
// so an odd value in a claim nobody reads cannot fail the whole token.
type Claim struct {
	raw json.RawMessage
}

// StringClaim builds a Claim holding s.
func StringClaim(s string) Claim {
	b, _ := json.Marshal(s)
	return Claim{raw: b}
}

func (c *Claim) UnmarshalJSON(b []byte) error {
	c.raw = append(c.raw[:0], b...)
	return nil
}

// Empty reports whether the claim is absent or holds a falsy value
// (null, "", 0, false, [] or {}). Empty claims fall through to the next candidate.
func (c Claim) Empty() bool {
	if len(bytes.TrimSpace(c.raw)) == 0 {
		return true
	}
	var v any
	if err := json.Unmarshal(c.raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return t == 0
	case bool:
		return !t
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

// Text returns the claim as a string; ok is false for any other JSON type.
func (c Claim) Text() (string, bool) {
	var s string
	if err := json.Unmarshal(c.raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ClaimSet is the decoded payload of a verified token.
// The account identifier lives in `sub`; `account_id` is the legacy claim name.
type ClaimSet struct {
	ExpiresAt *jwt.NumericDate `json:"exp,omitempty"`
	NotBefore *jwt.NumericDate `json:"nbf,omitempty"`
	IssuedAt  *jwt.NumericDate `json:"iat,omitempty"`
	Issuer    string           `json:"iss,omitempty"`
	Audience  jwt.ClaimStrings `json:"aud,omitempty"`
	ID        string           `json:"jti,omitempty"`

	Subject   Claim `json:"sub"`
	AccountID Claim `json:"account_id"`
}

var errSubjectNotString = errors.New("sub claim is not a string")

func (c ClaimSet) GetExpirationTime() (*jwt.NumericDate, error) { return c.ExpiresAt, nil }
func (c ClaimSet) GetNotBefore() (*jwt.NumericDate, error)     { return c.NotBefore, nil }
func (c ClaimSet) GetIssuedAt() (*jwt.NumericDate, error)      { return c.IssuedAt, nil }
func (c ClaimSet) GetIssuer() (string, error)                  { return c.Issuer, nil }
func (c ClaimSet) GetAudience() (jwt.ClaimStrings, error)      { return c.Audience, nil }

// GetSubject is only consulted by golang-jwt when a subject is pinned, which this verifier never does.
func (c ClaimSet) GetSubject() (string, error) {
	if c.Subject.Empty() {
		return "", nil
	}
	s, ok := c.Subject.Text()
	if !ok {
		return "", errSubjectNotString
	}
	return s, nil
}

// Identifier returns `sub` if non-empty, otherwise `account_id`.
// This order is a compatibility contract with older token issuers; do not swap it.
func (c ClaimSet) Identifier() Claim {
	if !c.Subject.Empty() {
		return c.Subject
	}
	return c.AccountID
}
