package authmodule

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ottworks/streamserve/internal/config"
)

func signToken(t *testing.T, claims jwt.MapClaims, method jwt.SigningMethod, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(userID uint) jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", userID),
		"username": "asha",
		"iat":      now.Unix(),
		"exp":      now.Add(time.Hour).Unix(),
	}
}

func newMiddlewareRouter() *gin.Engine {
	r := gin.New()
	r.Use(Middleware())
	r.GET("/whoami", func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID, "username": user.Username})
	})
	r.GET("/private", RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestMiddlewareAttachesPrincipal(t *testing.T) {
	r := newMiddlewareRouter()
	secret := config.Get().Security.JWTSecret

	token := signToken(t, validClaims(7), jwt.SigningMethodHS256, secret)
	w := get(r, "/whoami", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id": 7, "username": "asha"}`, w.Body.String())
}

func TestMiddlewareAnonymousPassesThrough(t *testing.T) {
	r := newMiddlewareRouter()

	w := get(r, "/whoami", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous": true}`, w.Body.String())
}

func TestMiddlewareRejectsBadTokens(t *testing.T) {
	r := newMiddlewareRouter()
	secret := config.Get().Security.JWTSecret

	expired := validClaims(7)
	expired["exp"] = time.Now().Add(-time.Hour).Unix()

	noSub := validClaims(7)
	delete(noSub, "sub")

	tests := []struct {
		name  string
		token string
	}{
		{"garbage token", "not.a.token"},
		{"wrong secret", signToken(t, validClaims(7), jwt.SigningMethodHS256, "other-secret")},
		{"expired", signToken(t, expired, jwt.SigningMethodHS256, secret)},
		{"missing subject", signToken(t, noSub, jwt.SigningMethodHS256, secret)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A bad token degrades to anonymous rather than erroring.
			w := get(r, "/whoami", tt.token)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"anonymous": true}`, w.Body.String())

			// But it never clears a gate.
			w = get(r, "/private", tt.token)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestMiddlewareRejectsUnexpectedSigningMethod(t *testing.T) {
	r := newMiddlewareRouter()
	secret := config.Get().Security.JWTSecret

	// HS512 is a valid HMAC method but not the one this service issues.
	token := signToken(t, validClaims(7), jwt.SigningMethodHS512, secret)
	w := get(r, "/private", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth(t *testing.T) {
	r := newMiddlewareRouter()
	secret := config.Get().Security.JWTSecret

	w := get(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := signToken(t, validClaims(3), jwt.SigningMethodHS256, secret)
	w = get(r, "/private", token)
	assert.Equal(t, http.StatusOK, w.Code)
}
