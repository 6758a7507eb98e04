package main

import (
	"surreality-auth/internal/accounts"
	"surreality-auth/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, authMW gin.HandlerFunc, gateway *accounts.Gateway) {
	// public
	r.GET("/healthz", httpapi.Health)

	// protected API group
	h := httpapi.Handlers{Accounts: gateway}
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", h.Me)
		v1.GET("/me/exists", h.Exists)
	}
}
