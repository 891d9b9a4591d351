package geofences

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Lister interface {
	GetGeofences() ([]Geofence, error)
}

type Handler struct {
	repository Lister
	logger     *zap.Logger
}

func NewHandler(repository Lister, logger *zap.Logger) *Handler {
	return &Handler{repository: repository, logger: logger}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/geofences", h.getGeofences)
}

// getGeofences degrades to an empty list when the platform table is
// unavailable so map clients keep working on standalone deployments.
func (h *Handler) getGeofences(c *gin.Context) {
	geofences, err := h.repository.GetGeofences()
	if err != nil {
		h.logger.Warn("Failed to fetch geofences", zap.Error(err))
		c.JSON(http.StatusOK, []Geofence{})
		return
	}

	c.JSON(http.StatusOK, geofences)
}
