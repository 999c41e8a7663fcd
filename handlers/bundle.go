package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers for route registration.
type HandlerBundle struct {
	// Chat endpoints
	IndexHandler         gin.HandlerFunc
	StartHandler         gin.HandlerFunc
	ChatHandler          gin.HandlerFunc
	EndThreadHandler     gin.HandlerFunc
	ThreadAuthMiddleware gin.HandlerFunc

	// Calendar endpoints
	AvailabilityHandler      gin.HandlerFunc
	CreateAppointmentHandler gin.HandlerFunc
	SuggestHandler           gin.HandlerFunc

	// Solar endpoints
	SolarEstimateHandler gin.HandlerFunc

	HealthHandler gin.HandlerFunc
}
