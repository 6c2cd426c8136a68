package routes

import (
	"net/http"

	"tapstead/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints of the matching and booking core.
func RegisterRoutes(r *gin.Engine, match *handlers.MatchHandler, booking *handlers.BookingHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/match/search", match.SearchProviders)

		api.POST("/booking/confirm", booking.ConfirmBooking)
		api.POST("/booking/:bookingID/auto-assign", booking.AutoAssign)
		api.GET("/booking/:bookingID", booking.GetBooking)
	}
}
