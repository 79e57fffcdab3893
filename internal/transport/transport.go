package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/devevents-app/devevents/internal/transport/middleware"
)

func InitRoutes(eventHandler *EventHandler, bookingHandler *BookingHandler, analyticsHandler *AnalyticsHandler) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.Identity())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		events := api.Group("/events")
		{
			events.POST("", eventHandler.CreateEvent)
			events.GET("", eventHandler.GetAllEvents)
			events.GET("/:slug", eventHandler.GetEvent)
			events.GET("/:slug/similar", eventHandler.GetSimilarEvents)
			events.GET("/:slug/registrations", eventHandler.GetRegistrationCount)
			events.PUT("/:id", eventHandler.UpdateEvent)
			events.DELETE("/:id", eventHandler.DeleteEvent)
			events.POST("/:id/register", bookingHandler.Register)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bookingHandler.GetUserBookings)
			bookings.DELETE("/:id", bookingHandler.Cancel)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("/summary", analyticsHandler.GetSummary)
			dashboard.GET("/trends", analyticsHandler.GetTrends)
			dashboard.GET("/events/:id", analyticsHandler.GetEventAnalytics)
			dashboard.GET("/events/:id/bookings", bookingHandler.GetEventBookings)
		}
	}

	return router
}
