package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/auy1jlll/pizza-vx-sub002/configs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func parseToken(cfg *configs.Config, tokenStr string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	var userID uint
	switch v := claims["userId"].(type) {
	case float64:
		userID = uint(v)
	case int:
		userID = uint(v)
	case int64:
		userID = uint(v)
	case uint:
		userID = v
	}
	c.Set("userId", userID)

	if v, ok := claims["group"].(string); ok {
		c.Set("group", v)
	}
}

// AuthMiddleware verifies the bearer token and, when groups are given,
// requires the token's group to be one of them.
func AuthMiddleware(cfg *configs.Config, requiredGroups ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}
		claims, err := parseToken(cfg, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": err.Error()})
			c.Abort()
			return
		}
		setIdentity(c, claims)

		if len(requiredGroups) > 0 {
			group, _ := c.Get("group")
			allowed := false
			for _, g := range requiredGroups {
				if group == g {
					allowed = true
					break
				}
			}
			if !allowed {
				c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}

// OptionalAuth parses the token when present so logged-in users unlock
// login-gated promotions, but lets guests through untouched.
func OptionalAuth(cfg *configs.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if strings.HasPrefix(h, "Bearer ") {
			if claims, err := parseToken(cfg, strings.TrimPrefix(h, "Bearer ")); err == nil {
				setIdentity(c, claims)
			}
		}
		c.Next()
	}
}
