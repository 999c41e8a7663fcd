package middleware

import (
	"net/http"
	"strings"

	"solarbot/utils"

	"github.com/gin-gonic/gin"
)

// ThreadAuthMiddleware requires a Bearer thread token and stores the thread
// it was issued for under "threadID". Handlers compare it with the thread
// they operate on.
func ThreadAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !strings.HasPrefix(authHeader, "Bearer ") || tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing thread token"})
			return
		}

		threadID, err := utils.ExtractThreadIDFromToken(tokenString)
		if err != nil || threadID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid thread token"})
			return
		}
		c.Set("threadID", threadID)
		c.Next()
	}
}
