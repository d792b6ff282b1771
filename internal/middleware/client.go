package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ClientGuard returns middleware that rejects callers whose token does not
// cover the :client_id path parameter. It relies on AuthMiddleware having
// already set the claims.
func ClientGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := GetClaims(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "client context required"},
			})
			return
		}
		if !claims.CanAccessClient(c.Param("client_id")) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "token does not grant access to this client"},
			})
			return
		}
		c.Next()
	}
}
