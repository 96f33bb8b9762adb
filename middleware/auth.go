package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity reads the opaque user id the upstream identity provider attaches
// to each request, plus optional display name/email, and stores them on the
// context. Requests without an id are rejected outright.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}
		c.Set("userId", userID)
		c.Set("userName", strings.TrimSpace(c.GetHeader("X-User-Name")))
		c.Set("userEmail", strings.TrimSpace(c.GetHeader("X-User-Email")))
		c.Next()
	}
}

// UserID returns the identity set by Identity(), empty when absent.
func UserID(c *gin.Context) string {
	if v, ok := c.Get("userId"); ok {
		if s, ok2 := v.(string); ok2 {
			return s
		}
	}
	return ""
}

func UserName(c *gin.Context) string {
	if v, ok := c.Get("userName"); ok {
		if s, ok2 := v.(string); ok2 {
			return s
		}
	}
	return ""
}

func UserEmail(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, ok2 := v.(string); ok2 {
			return s
		}
	}
	return ""
}
