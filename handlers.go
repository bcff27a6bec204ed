package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Saparbek-4/task-manager-pro/models"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	auth.POST("/register", registerHandler)
	auth.POST("/login", loginHandler)
	auth.POST("/refresh", refreshHandler)
	auth.POST("/logout", logoutHandler)

	adminGroup := r.Group("/api/auth")
	adminGroup.Use(jwtAuthMiddleware(), requireAdmin())
	adminGroup.GET("/test-cleanup", cleanupHandler)
	adminGroup.GET("/all", listUsersHandler)

	userGroup := r.Group("/api/users")
	userGroup.Use(jwtAuthMiddleware())
	userGroup.GET("/me", meHandler)
}

// bearerToken extracts the raw token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 8 || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return authHeader[7:], true
}

// jwtAuthMiddleware validates the access token on every protected request and
// attaches the resolved subject and role to the request context. A refresh
// token presented here is rejected by the kind check.
func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		claims, err := validateToken(tokenString, tokenKindAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		c.Set("username", claims.Subject)
		if claims.Role != "" {
			c.Set("role", claims.Role)
		}
		c.Next()
	}
}

func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get("role")
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func registerHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := RegisterUser(req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	resp, err := issueSession(tokenStore, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	resp, err := issueSession(tokenStore, user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// refreshHandler rotates the refresh token presented in the Authorization
// header. Every failure mode maps to the same bare 401 so callers cannot
// probe which check failed.
func refreshHandler(c *gin.Context) {
	oldValue, ok := bearerToken(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}
	resp, err := rotateSession(tokenStore, findUserByUsername, oldValue)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// logoutHandler deletes the presented refresh record. Idempotent: logging out
// with an unknown or already-deleted token still succeeds.
func logoutHandler(c *gin.Context) {
	value, ok := bearerToken(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}
	if err := tokenStore.Delete(value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// cleanupHandler forces one synchronous sweep cycle, for diagnostics.
func cleanupHandler(c *gin.Context) {
	removed := sweeper.RemoveExpiredTokens()
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

func listUsersHandler(c *gin.Context) {
	var users []models.User
	if err := db.Order("created_at").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, gin.H{
			"id":        u.ID,
			"email":     u.Email,
			"name":      u.Username,
			"avatarUrl": u.AvatarURL,
			"role":      u.Role,
		})
	}
	c.JSON(http.StatusOK, out)
}

func meHandler(c *gin.Context) {
	usernameVal, _ := c.Get("username")
	if usernameVal == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "context missing username"})
		return
	}
	var user models.User
	if err := db.Where("username = ?", usernameVal.(string)).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"name":      user.Username,
		"avatarUrl": user.AvatarURL,
		"role":      user.Role,
	})
}
