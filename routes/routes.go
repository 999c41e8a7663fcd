package routes

import (
	"time"

	"solarbot/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes registers the conversational endpoints used by the
// website widget.
func RegisterChatRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/", hb.IndexHandler)
	r.GET("/start", hb.StartHandler)

	chat := r.Group("/chat")
	{
		chat.Use(hb.ThreadAuthMiddleware)
		chat.POST("", hb.ChatHandler)
		chat.DELETE("/:threadID", hb.EndThreadHandler)
	}
}

// RegisterCalendarRoutes registers direct scheduling endpoints.
func RegisterCalendarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/calendar")
	{
		api.POST("/availability", hb.AvailabilityHandler)
		api.POST("/appointments", hb.CreateAppointmentHandler)
		api.POST("/suggest", hb.SuggestHandler)
	}
}

func RegisterSolarRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/solar")
	{
		api.POST("/estimate", hb.SolarEstimateHandler)
	}
}

func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterChatRoutes(r, hb)
	RegisterCalendarRoutes(r, hb)
	RegisterSolarRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
