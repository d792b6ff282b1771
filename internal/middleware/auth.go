package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"taxextract/internal/domain"
	"taxextract/internal/service"
)

const (
	ContextKeyAccessID = "access_id"
	ContextKeyClaims   = "claims"
)

// AuthMiddleware returns Gin middleware that validates JWT tokens and injects
// the caller's access id and claims.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeyAccessID, claims.AccessID)
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// GetClaims extracts the validated token claims from the Gin context.
func GetClaims(c *gin.Context) (*service.Claims, error) {
	val, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, domain.ErrUnauthorized
	}
	claims, ok := val.(*service.Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// GetAccessID extracts the caller's access id from the Gin context.
func GetAccessID(c *gin.Context) string {
	val, exists := c.Get(ContextKeyAccessID)
	if !exists {
		return ""
	}
	return val.(string)
}
