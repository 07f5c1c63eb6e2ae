package utils

import "github.com/gin-gonic/gin"

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get("userId")
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case int64:
		return uint(id)
	case float64:
		return uint(id)
	default:
		return 0
	}
}

// CurrentUserGroup returns the user-group tag from the verified token, used
// to gate group-restricted promotions. Empty for guests.
func CurrentUserGroup(c *gin.Context) string {
	if v, ok := c.Get("group"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
