package authmodule

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/config"
	"github.com/ottworks/streamserve/internal/database"
	"github.com/ottworks/streamserve/internal/events"
	"github.com/ottworks/streamserve/internal/logger"
)

// RegisterRoutes sets up the auth API
func (m *Module) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", m.register)
		auth.POST("/login", m.login)
	}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// register creates an account and signs the caller in
func (m *Module) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	user := database.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		PhoneNumber:  req.PhoneNumber,
	}
	if err := database.GetDB().Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already in use"})
		return
	}

	// The activity module records the account creation from this event.
	publishUserEvent(c, events.EventUserCreated, &user, "User Created")

	token, err := issueToken(&user)
	if err != nil {
		logger.Error("failed to issue token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":         user,
		"access_token": token,
	})
}

// login verifies credentials and returns an access token
func (m *Module) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	var user database.User
	err := database.GetDB().Where("username = ?", req.Username).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("user lookup failed: %v", err)
		}
		// Same answer for unknown user and bad password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	publishUserEvent(c, events.EventUserLoggedIn, &user, "User Logged In")

	token, err := issueToken(&user)
	if err != nil {
		logger.Error("failed to issue token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":         user,
		"access_token": token,
	})
}

// publishUserEvent emits an auth lifecycle event carrying enough request
// context for downstream activity recording
func publishUserEvent(c *gin.Context, eventType events.EventType, user *database.User, title string) {
	bus := events.GetGlobalEventBus()
	if bus == nil {
		return
	}

	ev := events.NewEvent(eventType, fmt.Sprintf("user:%d", user.ID), title, user.Username)
	ev.Data = map[string]interface{}{
		"user_id":    user.ID,
		"ip_address": c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	}
	if err := bus.PublishAsync(ev); err != nil {
		logger.Warn("failed to publish %s event for user %d: %v", eventType, user.ID, err)
	}
}

func issueToken(user *database.User) (string, error) {
	cfg := config.Get()
	now := time.Now()

	claims := jwt.MapClaims{
		"sub":      fmt.Sprintf("%d", user.ID),
		"username": user.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(cfg.Security.JWTExpiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Security.JWTSecret))
}
