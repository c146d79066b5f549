package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OwnerKey is the gin context key holding the authenticated subject
const OwnerKey = "owner"

// Optional records the caller's subject when a valid token is present and
// lets anonymous requests through. A nil validator treats everyone as anonymous.
func Optional(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if v == nil {
			c.Next()
			return
		}
		if subject, ok := v.ValidateToken(c.GetHeader("Authorization")); ok {
			c.Set(OwnerKey, subject)
		}
		c.Next()
	}
}

// Required rejects requests without a valid token
func Required(v TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			subject string
			ok      bool
		)
		if v != nil {
			subject, ok = v.ValidateToken(c.GetHeader("Authorization"))
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Set(OwnerKey, subject)
		c.Next()
	}
}

// Owner returns the authenticated subject, if any
func Owner(c *gin.Context) (string, bool) {
	subject := c.GetString(OwnerKey)
	return subject, subject != ""
}
