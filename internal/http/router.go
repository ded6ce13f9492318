package api

import (
	"fmt"
	"log"
	stdhttp "net/http"

	intconfig "spacify/internal/config"
	h "spacify/internal/http/handlers"
	"spacify/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hd *h.Handler) *gin.Engine {
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.RequestURI()),
		})
	})

	requireAuth := middleware.RequireAuth(hd.Auth)

	api := r.Group("/api")
	{
		api.GET("/health", hd.Health)
		api.GET("/db-check", hd.DBCheck)
		api.GET("/routes", hd.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/login", hd.Login)
		auth.POST("/register", hd.Register)
		auth.GET("/verify", hd.Verify)
		auth.POST("/logout", hd.Logout)

		// Listings
		spots := api.Group("/parking-spots")
		spots.GET("", hd.ListSpots)
		spots.GET("/search", hd.SearchSpots)
		spots.GET("/:id", hd.GetSpot)

		// Bookings
		bookings := api.Group("/bookings", requireAuth)
		bookings.GET("", hd.ListBookings)
		bookings.POST("", hd.CreateBooking)
		bookings.GET("/:id", hd.GetBooking)
		bookings.DELETE("/:id", hd.CancelBooking)
		bookings.GET("/:id/ticket", hd.BookingTicket)
	}

	hd.SetRouter(r)
	return r
}
