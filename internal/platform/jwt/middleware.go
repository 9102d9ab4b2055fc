package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ContextSubject is the gin context key holding the verified token subject.
const ContextSubject = "subject"

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
//
// Browsers cannot set headers on a WebSocket handshake, so the token may
// also be passed as the access_token query parameter.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if len(key) == 0 {
			// Server misconfiguration (JWT_SECRET not set)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
			return
		}

		tokenStr, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		var claims jwt.RegisteredClaims
		token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
			return key, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

// Subject returns the verified subject stored by AuthRequired.
func Subject(c *gin.Context) string {
	return c.GetString(ContextSubject)
}

func bearer(c *gin.Context) (string, bool) {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if !strings.HasPrefix(auth, "Bearer ") {
			return "", false
		}
		tok := strings.TrimPrefix(auth, "Bearer ")
		return tok, tok != ""
	}
	tok := c.Query("access_token")
	return tok, tok != ""
}
