package auth

import (
	"errors"

	"github.com/google/uuid"
)

// AccountID is an account identifier that has passed UUID validation.
// It keeps the exact text found in the token; use UUID() for the parsed value.
type AccountID string

func (id AccountID) String() string { return string(id) }

// UUID returns the parsed identifier, or uuid.Nil if id did not come from ParseAccountID.
func (id AccountID) UUID() uuid.UUID {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return uuid.Nil
	}
	return u
}

// ParseAccountID accepts any textual form uuid.Parse accepts
// (canonical, braced, urn:uuid: prefixed, or 32 bare hex digits), case-insensitively.
func ParseAccountID(s string) (AccountID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return AccountID(s), nil
}

var (
	errMissingIdentifier   = errors.New("neither sub nor account_id is set")
	errMalformedIdentifier = errors.New("account identifier is not a uuid string")
)

// ExtractAccountID pulls the account identifier out of a verified claim set.
// A non-string identifier is malformed, not missing.
func ExtractAccountID(claims ClaimSet) (AccountID, error) {
	claim := claims.Identifier()
	if claim.Empty() {
		return "", newError(KindMissingIdentifier, errMissingIdentifier)
	}

	raw, ok := claim.Text()
	if !ok {
		return "", newError(KindMalformedIdentifier, errMalformedIdentifier)
	}
	id, err := ParseAccountID(raw)
	if err != nil {
		return "", &Error{Kind: KindMalformedIdentifier, Detail: err.Error(), Err: errors.Join(errMalformedIdentifier, err)}
	}
	return id, nil
}
