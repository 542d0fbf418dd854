package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContextUserID = "userID"

// AuthRequired returns a Gin middleware function that validates bearer
// tokens with the given verifier and restricts access to authenticated
// users only.
func AuthRequired(verifier Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimPrefix(auth, "Bearer ")

		// 2. Parse and verify JWT signature and expiry
		claims, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			// Validation error or invalid token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		// 3. Expose the authenticated user to downstream handlers
		c.Set(ContextUserID, claims.UserID)

		// 4. Pass control to the next handler
		c.Next()
	}
}
