package common

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// ContextUserID is the gin context key holding the authenticated user id.
	ContextUserID = "user_id"
	// ContextHandle is the gin context key holding the authenticated handle.
	ContextHandle = "handle"
)

// AuthMiddleware validates the Bearer token on every request and injects the
// user identity into the gin context. Requests without a valid token are
// rejected with 401; authorization decisions below that (membership, admin
// role) belong to the services.
func AuthMiddleware(secret string) gin.HandlerFunc {
	if secret == "" {
		panic("JWT secret cannot be empty for AuthMiddleware")
	}

	return func(c *gin.Context) {
		tokenString, err := ExtractBearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "authorization required"})
			c.Abort()
			return
		}

		claims, err := ValidToken(tokenString, secret)
		if err != nil {
			logrus.WithError(err).Warn("auth middleware: invalid token")
			c.JSON(http.StatusUnauthorized, Envelope{Success: false, Message: "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextHandle, claims.Handle)
		c.Next()
	}
}

// ExtractBearerToken pulls the token out of an "Authorization: Bearer x" header.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrValidation
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", ErrValidation
	}
	return parts[1], nil
}

// UserID returns the authenticated user id set by AuthMiddleware.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
