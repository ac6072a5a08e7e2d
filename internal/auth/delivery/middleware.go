package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// PasswordGuard protects admin mutation routes. Callers supply the shared
// password in the X-API-Password header; it is checked against a bcrypt hash
// from configuration. An empty hash locks the guarded routes entirely.
func PasswordGuard(passwordHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		password := c.GetHeader("X-API-Password")
		if password == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "password header is required"})
			c.Abort()
			return
		}

		if passwordHash == "" || bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			c.Abort()
			return
		}

		c.Next()
	}
}
