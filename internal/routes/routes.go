package routes

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/accretegeo-dev/traccar-backend/internal/container"
)

// RegisterAPIRoutes mounts every handler under the /node-api prefix the
// frontend proxy expects.
func RegisterAPIRoutes(router *gin.Engine, c *container.Container) {
	api := router.Group("/node-api")

	c.PositionHandler.RegisterRoutes(api)
	c.DeviceHandler.RegisterRoutes(api)
	c.GeofenceHandler.RegisterRoutes(api)
	c.TrackHandler.RegisterRoutes(api)
	c.TripHandler.RegisterRoutes(api)

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC().Format(time.RFC3339)})
		log.Println("Health check successful")
	})
}
