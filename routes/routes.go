package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"booking-backend/controllers"
	"booking-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	bc *controllers.BookingController,
	rc *controllers.RoomController,
) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "X-User-Id", "X-User-Name", "X-User-Email"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		// Public browse/preview surface.
		api.GET("/hotels", rc.GetHotels)
		api.GET("/rooms/:id", rc.GetRoom)
		api.GET("/rooms/:id/bookings", bc.GetRoomBookings)
		api.POST("/bookings/quote", bc.Quote)

		// Everything below requires an identity from the upstream provider.
		auth := api.Group("")
		auth.Use(middleware.Identity())
		{
			auth.POST("/payment-intent", bc.CreatePaymentIntent)

			bookings := auth.Group("/bookings")
			{
				bookings.GET("", bc.GetMyBookings)
				bookings.PATCH("/:intentId", bc.ConfirmBooking)
				bookings.DELETE("/:id", bc.DeleteBooking)
			}

			auth.GET("/hotels/mine", rc.GetMyHotels)
			auth.POST("/hotels", rc.CreateHotel)
			auth.POST("/rooms", rc.CreateRoom)
			auth.PUT("/rooms/:id", rc.UpdateRoom)
			auth.DELETE("/rooms/:id", rc.DeleteRoom)
		}
	}

	return r
}
