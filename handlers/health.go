package handlers

import (
	"net/http"

	"solarbot/utils"

	"github.com/gin-gonic/gin"
)

// Health reports the last snapshot of the dependency monitor. Redis is
// required; MongoDB and the calendar degrade the status.
func Health(c *gin.Context) {
	h := utils.GetHealthStatus()
	status := "ok"
	code := http.StatusOK
	for _, up := range h.Redis {
		if !up {
			status, code = "down", http.StatusServiceUnavailable
		}
	}
	if code == http.StatusOK && (!h.Calendar || !h.Mongo) {
		status = "degraded"
	}
	c.JSON(code, gin.H{"status": status, "checks": h})
}
