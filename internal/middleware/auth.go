package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cadportal/internal/pkg/jwt"
	"cadportal/internal/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth requires a valid bearer token and stores the caller's identity in
// the gin context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// CurrentUser returns the identity set by JWTAuth. It writes a 401 and
// returns ok=false when the request is anonymous.
func CurrentUser(c *gin.Context) (userID string, role string, ok bool) {
	userID = c.GetString(ContextUserID)
	if userID == "" {
		response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return "", "", false
	}
	return userID, c.GetString(ContextRole), true
}
