package tracks

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	custom_error "github.com/accretegeo-dev/traccar-backend/pkg/errors"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

type CreateTrackRequest struct {
	DeviceID    int        `json:"deviceId"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Positions   []int64    `json:"positions"`
	Distance    float64    `json:"distance"`
	Duration    int        `json:"duration"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

type UpdateTrackRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Positions   []int64    `json:"positions"`
	Distance    *float64   `json:"distance"`
	Duration    *int       `json:"duration"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

type TrackPositionRequest struct {
	PositionID int64 `json:"positionId"`
}

type Handler struct {
	repository *TrackRepository
}

func NewHandler(repository *TrackRepository) *Handler {
	return &Handler{repository: repository}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	trackRoutes := router.Group("/custom-routes")
	{
		trackRoutes.GET("", h.getTracks)
		trackRoutes.GET("/device/:deviceId", h.getTracksByDevice)
		trackRoutes.GET("/:id", h.getTrack)
		trackRoutes.POST("", h.createTrack)
		trackRoutes.PUT("/:id", h.updateTrack)
		trackRoutes.DELETE("/:id", h.removeTrack)
		trackRoutes.POST("/:id/positions", h.appendPosition)
		trackRoutes.DELETE("/:id/positions", h.removePosition)
	}
}

func (h *Handler) getTracks(c *gin.Context) {
	tracks, err := h.repository.GetTracks()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch routes", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tracks)
}

func (h *Handler) getTracksByDevice(c *gin.Context) {
	deviceID, err := strconv.Atoi(c.Param("deviceId"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid device id"})
		return
	}

	tracks, err := h.repository.GetTracksByDevice(deviceID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch routes", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tracks)
}

func (h *Handler) getTrack(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	track, err := h.repository.GetTrack(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch route", "details": err.Error()})
		return
	}
	if track == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, track)
}

func (h *Handler) createTrack(c *gin.Context) {
	var req CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if req.DeviceID == 0 || req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: deviceId, name"})
		return
	}

	positions := req.Positions
	if positions == nil {
		positions = []int64{}
	}
	track := models.Track{
		DeviceID:    req.DeviceID,
		Name:        req.Name,
		Description: req.Description,
		Positions:   pq.Int64Array(positions),
		Distance:    req.Distance,
		Duration:    req.Duration,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}

	err := h.repository.PersistTrack(&track)
	if _, ok := err.(*custom_error.ForeignKeyViolationError); ok {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Could not create route", "details": err.Error()})
		return
	} else if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create route", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, track)
}

func (h *Handler) updateTrack(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	var req UpdateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	track, err := h.repository.UpdateTrack(id, req)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update route", "details": err.Error()})
		return
	}
	if track == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, track)
}

func (h *Handler) removeTrack(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	track, err := h.repository.RemoveTrack(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route", "details": err.Error()})
		return
	}
	if track == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully", "route": track})
}

func (h *Handler) appendPosition(c *gin.Context) {
	h.mutatePositions(c, h.repository.AppendPosition)
}

func (h *Handler) removePosition(c *gin.Context) {
	h.mutatePositions(c, h.repository.RemovePosition)
}

func (h *Handler) mutatePositions(c *gin.Context, mutate func(int, int64) (*models.Track, error)) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid route id"})
		return
	}

	var req TrackPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PositionID == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing positionId"})
		return
	}

	track, err := mutate(id, req.PositionID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update route positions", "details": err.Error()})
		return
	}
	if track == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, track)
}
