package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func newTestRouter(a *Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", RequireAccount(a), func(c *gin.Context) {
		id, err := AccountIDFrom(c.Request.Context())
		if err != nil {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account_id": id})
	})
	return r
}

func doRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRequireAccount_InjectsAccountID(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, validClaims(jwt.MapClaims{
		"sub": "11111111-1111-1111-1111-111111111111",
	}))

	w := doRequest(newTestRouter(a), "bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decodeBody(t, w)["account_id"]; got != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("unexpected account_id %q", got)
	}
}

func TestRequireAccount_MissingHeader(t *testing.T) {
	a := newTestAuthenticator(t)
	for _, h := range []string{"", "Basic abc", "Bearer "} {
		w := doRequest(newTestRouter(a), h)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", h, w.Code)
		}
		if w.Header().Get("WWW-Authenticate") != "Bearer" {
			t.Fatalf("%q: expected WWW-Authenticate header", h)
		}
	}
}

func TestRequireAccount_RendersExpired(t *testing.T) {
	a := newTestAuthenticator(t)
	tok := mint(t, jwt.SigningMethodHS256, testSecret, jwt.MapClaims{
		"sub": "11111111-1111-1111-1111-111111111111",
		"aud": RequiredAudience,
		"exp": testNow.Add(-time.Second).Unix(),
	})

	w := doRequest(newTestRouter(a), "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if got := decodeBody(t, w)["detail"]; got != "Token has expired" {
		t.Fatalf("unexpected detail %q", got)
	}
}

func TestRequireAccount_RendersInternalAs500(t *testing.T) {
	a := &Authenticator{verifier: &Verifier{}, clock: newTestAuthenticator(t).clock}

	w := doRequest(newTestRouter(a), "Bearer x.y.z")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if got := decodeBody(t, w)["detail"]; got == "" {
		t.Fatalf("expected detail")
	}
}
