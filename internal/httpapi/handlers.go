package httpapi

import (
	"net/http"

	"surreality-auth/internal/accounts"
	"surreality-auth/internal/auth"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: read identity from context, call the gateway, return JSON.
type Handlers struct {
	Accounts *accounts.Gateway
}

// Me returns the caller's account id and, when present, their users row.
// Every gateway call is scoped to the id RequireAccount put in context.
func (h Handlers) Me(c *gin.Context) {
	if h.Accounts == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "accounts not configured"})
		return
	}
	id, err := auth.AccountIDFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	user, ok := h.Accounts.GetUserInfo(c.Request.Context(), id)
	if !ok {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": id, "user": user})
}

// Exists reports whether the caller's account row exists. It never fails on store errors.
func (h Handlers) Exists(c *gin.Context) {
	if h.Accounts == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "accounts not configured"})
		return
	}
	id, err := auth.AccountIDFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"account_id": id, "exists": h.Accounts.AccountExists(c.Request.Context(), id)})
}

// Health is the public liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
