package auth

import (
	"net/http"
	"strings"

	"surreality-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerScheme = "Bearer"

// RequireAccount authenticates the bearer token and injects the account id into request context.
// It does not check the account exists; handlers that need that call the accounts gateway.
func RequireAccount(a *Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearerToken(c.GetHeader(authorizationHeader))
		if !ok {
			abort(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		id, err := a.Authenticate(tok)
		if err != nil {
			ae := AsError(err)
			log := logger.FromGin(c)
			if ae.Status() >= http.StatusInternalServerError {
				log.Error("authentication fault", "kind", ae.Kind, "err", ae.Detail)
			} else {
				log.Debug("authentication rejected", "kind", ae.Kind)
			}
			abort(c, ae.Status(), ae.Message())
			return
		}

		ctx := WithAccountID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Set(logger.AccountIDKey, id)

		c.Next()
	}
}

// bearerToken parses "Bearer <token>"; the scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, tok, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", false
	}
	return tok, true
}

func abort(c *gin.Context, status int, detail string) {
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", bearerScheme)
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
