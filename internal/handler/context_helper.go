package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/respub-api/internal/middleware"
	"github.com/noah-isme/respub-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// scopeFromClaims resolves the caller's access scope from their token.
func scopeFromClaims(claims *models.JWTClaims) (models.Scope, error) {
	return models.ScopeFor(claims.Role, claims.College, claims.Category)
}
