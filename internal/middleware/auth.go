package middleware

import (
	"net/http"
	"strconv"
	"strings"

	jwtsvc "blogauth/internal/pkg/jwt"
	"blogauth/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Auth validates the Bearer access token and exposes the caller's
// identity (user_id, username, roles) to downstream handlers.
func Auth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		claims, err := jwt.Validate(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		userID, err := strconv.ParseInt(claims.UID, 10, 64)
		if err != nil {
			abortUnauthorized(c, "Invalid token subject")
			return
		}

		c.Set("user_id", userID)
		c.Set("username", claims.Username)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
	c.Abort()
}
