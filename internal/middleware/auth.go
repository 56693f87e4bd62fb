package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	OperatorHeader = "X-Operator"
	operatorKey    = "operator"

	// DefaultOperator is recorded in audit rows when a request names nobody.
	DefaultOperator = "system"
)

// Authenticate requires "Authorization: Bearer <token>" on every route
// except the health check. An empty token disables the check.
func Authenticate(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" || strings.HasSuffix(c.Request.URL.Path, "/health") {
			c.Next()
			return
		}

		key := extractBearer(c)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required. Use Authorization: Bearer <token>"})
			return
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Next()
	}
}

// Operator stores the X-Operator header on the context for audit rows.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader(OperatorHeader))
		if name == "" {
			name = DefaultOperator
		}
		c.Set(operatorKey, name)
		c.Next()
	}
}

// OperatorFrom returns the operator set by Operator, or DefaultOperator.
func OperatorFrom(c *gin.Context) string {
	if name := c.GetString(operatorKey); name != "" {
		return name
	}
	return DefaultOperator
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	scheme, key, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(key)
}
