package authmodule

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ottworks/streamserve/internal/config"
	"github.com/ottworks/streamserve/internal/database"
)

const (
	ctxUserIDKey   = "auth.user_id"
	ctxUsernameKey = "auth.username"
)

// Middleware parses an Authorization bearer token and, when valid, attaches
// the principal to the request context. Requests without a valid token pass
// through unauthenticated; route groups decide whether that is acceptable.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.Next()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		cfg := config.Get()
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			return []byte(cfg.Security.JWTSecret), nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.Next()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil || userID == 0 {
			c.Next()
			return
		}
		username, _ := claims["username"].(string)

		c.Set(ctxUserIDKey, uint(userID))
		c.Set(ctxUsernameKey, username)
		c.Next()
	}
}

// RequireAuth aborts with 401 when no principal is attached to the request
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated principal for the request, if any.
// The returned user carries only the identity fields from the token.
func CurrentUser(c *gin.Context) (*database.User, bool) {
	id, exists := c.Get(ctxUserIDKey)
	if !exists {
		return nil, false
	}
	userID, ok := id.(uint)
	if !ok {
		return nil, false
	}
	username := c.GetString(ctxUsernameKey)
	return &database.User{ID: userID, Username: username}, true
}
