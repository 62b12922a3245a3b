package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"meditation-assistant-backend/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID  int64
	IsAdmin bool
	jwt.RegisteredClaims
}

func GenerateToken(userID int64, isAdmin bool) (string, error) {
	claims := Claims{
		UserID:  userID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secretKey := []byte(config.Cfg.JWT.SecretKey)
	return token.SignedString(secretKey)
}

func parseToken(c *gin.Context) *Claims {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		slog.Info("Authorization header required")
		return nil
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		slog.Info("Invalid authorization format")
		return nil
	}

	tokenString := parts[1]
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.Cfg.JWT.SecretKey), nil
	})

	if err != nil || !token.Valid {
		slog.Info("Invalid token", "err", err, "user_id", claims.UserID)
		return nil
	}

	return claims
}

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseToken(c)
		if claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}

// AdminAuthMiddleware 管理端路由要求带管理员声明的token
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := parseToken(c)
		if claims == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Next()
	}
}
