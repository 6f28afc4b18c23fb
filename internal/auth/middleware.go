package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const subjectKey = "auth_subject"

// Middleware validates the bearer token and stores the auth subject id in
// the request context. Requests without a valid token are rejected.
func Middleware(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		subject, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(subjectKey, subject)
		c.Next()
	}
}

// OptionalMiddleware stores the auth subject id when a valid bearer token
// is present and lets the request through either way. Used on public
// endpoints that personalize when the caller is signed in.
func OptionalMiddleware(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if subject, err := tokens.Validate(token); err == nil {
				c.Set(subjectKey, subject)
			}
		}
		c.Next()
	}
}

// Subject returns the auth subject id set by Middleware.
func Subject(c *gin.Context) string {
	return c.GetString(subjectKey)
}
