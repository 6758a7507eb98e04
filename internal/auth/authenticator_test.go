package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"surreality-auth/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "s3cret"

var testNow = time.Unix(1700000000, 0).UTC()

func mint(t *testing.T, method jwt.SigningMethod, secret string, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func validClaims(extra jwt.MapClaims) jwt.MapClaims {
	c := jwt.MapClaims{
		"aud": RequiredAudience,
		"exp": testNow.Add(time.Hour).Unix(),
	}
	for k, v := range extra {
		c[k] = v
	}
	return c
}

func newTestAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	a, err := NewAuthenticator(config.AuthConfig{
		StoreURL:       "https://project.supabase.co",
		ServiceRoleKey: "service-key",
		JWTSecret:      testSecret,
	})
	if err != nil {
		t.Fatalf("authenticator: %v", err)
	}
	a.clock = func() time.Time { return testNow }
	return a
}

func requireKind(t *testing.T, err error, want Kind) *Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", want)
	}
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *auth.Error, got %T: %v", err, err)
	}
	if ae.Kind != want {
		t.Fatalf("expected kind %s, got %s (%v)", want, ae.Kind, ae)
	}
	return ae
}

func TestAuthenticate_ReturnsSubject(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
		"sub": "11111111-1111-1111-1111-111111111111",
	}))

	id, err := a.Authenticate(tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestAuthenticate_FallsBackToAccountID(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
		"account_id": "22222222-2222-2222-2222-222222222222",
	}))

	id, err := a.Authenticate(tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id != "22222222-2222-2222-2222-222222222222" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestAuthenticate_SubjectWinsOverAccountID(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
		"sub":        "11111111-1111-1111-1111-111111111111",
		"account_id": "22222222-2222-2222-2222-222222222222",
	}))

	id, err := a.Authenticate(tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("expected sub to win, got %q", id)
	}
}

func TestAuthenticate_EmptySubjectFallsBack(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
		"sub":        "",
		"account_id": "22222222-2222-2222-2222-222222222222",
	}))

	id, err := a.Authenticate(tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id != "22222222-2222-2222-2222-222222222222" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestAuthenticate_WrongSecretIsMalformed(t *testing.T) {
	a := newTestAuthenticator(t)
	for _, claims := range []jwt.MapClaims{
		validClaims(jwt.MapClaims{"sub": "11111111-1111-1111-1111-111111111111"}),
		validClaims(jwt.MapClaims{"sub": "not-a-uuid"}),
		{"exp": testNow.Add(-time.Hour).Unix()},
	} {
		tok := mint(t, jwt.SigningMethodHS256, "other-secret", claims)
		_, err := a.Authenticate(tok)
		ae := requireKind(t, err, KindMalformed)
		if ae.Status() != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", ae.Status())
		}
	}
}

func TestAuthenticate_ExpiredOneSecondAgo(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "11111111-1111-1111-1111-111111111111",
		"aud": RequiredAudience,
		"exp": testNow.Add(-time.Second).Unix(),
	})

	_, err := a.Authenticate(tok)
	ae := requireKind(t, err, KindExpired)
	if ae.Status() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ae.Status())
	}
	if ae.Message() != "Token has expired" {
		t.Fatalf("unexpected message %q", ae.Message())
	}
}

func TestAuthenticate_NonUUIDSubjectIsMalformedIdentifier(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{"sub": "not-a-uuid"}))

	_, err := a.Authenticate(tok)
	ae := requireKind(t, err, KindMalformedIdentifier)
	if ae.Message() != "Invalid token: malformed account_id" {
		t.Fatalf("unexpected message %q", ae.Message())
	}
}

func TestAuthenticate_EmptySubjectWithoutAccountIDIsMissing(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{"sub": ""}))

	_, err := a.Authenticate(tok)
	ae := requireKind(t, err, KindMissingIdentifier)
	if ae.Message() != "Invalid token: missing account_id" {
		t.Fatalf("unexpected message %q", ae.Message())
	}
}

func TestAuthenticate_WrongAudienceIsMalformed(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "11111111-1111-1111-1111-111111111111",
		"aud": "anon",
		"exp": testNow.Add(time.Hour).Unix(),
	})

	_, err := a.Authenticate(tok)
	requireKind(t, err, KindMalformed)
}

func TestAuthenticate_GarbageIsMalformed(t *testing.T) {
	a := newTestAuthenticator(t)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := a.Authenticate(raw)
		ae := requireKind(t, err, KindMalformed)
		if ae.Detail == "" {
			t.Fatalf("%q: expected detail", raw)
		}
	}
}

func TestAuthenticate_UninitializedIsInternal(t *testing.T) {
	var a *Authenticator
	_, err := a.Authenticate("x")
	ae := requireKind(t, err, KindInternal)
	if ae.Status() != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ae.Status())
	}
}

func TestNewAuthenticator_RequiresSecret(t *testing.T) {
	if _, err := NewAuthenticator(config.AuthConfig{}); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestAuthenticate_IgnoresNonStringAccountIDWhenSubjectSet(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
		"sub":        "11111111-1111-1111-1111-111111111111",
		"account_id": 12345,
	}))

	id, err := a.Authenticate(tok)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if id != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestAuthenticate_NumericSubjectIsMalformedIdentifier(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{"sub": 42}))

	_, err := a.Authenticate(tok)
	ae := requireKind(t, err, KindMalformedIdentifier)
	if ae.Status() != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ae.Status())
	}
}

func TestAuthenticate_FalsySubjectFallsBack(t *testing.T) {
	a := newTestAuthenticator(t)
	for _, sub := range []any{nil, 0, false} {
		tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
			"sub":        sub,
			"account_id": "22222222-2222-2222-2222-222222222222",
		}))
		id, err := a.Authenticate(tok)
		if err != nil {
			t.Fatalf("sub=%v: authenticate: %v", sub, err)
		}
		if id != "22222222-2222-2222-2222-222222222222" {
			t.Fatalf("sub=%v: unexpected id %q", sub, id)
		}
	}
}
