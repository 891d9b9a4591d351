package trips

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

type OverrideRequest struct {
	DeviceID int             `json:"deviceId"`
	Edited   json.RawMessage `json:"edited"`
}

type BulkOverrideRequest struct {
	Items map[string]OverrideRequest `json:"items"`
}

type Handler struct {
	repository *OverrideRepository
}

func NewHandler(repository *OverrideRepository) *Handler {
	return &Handler{repository: repository}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	tripRoutes := router.Group("/custom-trips")
	{
		tripRoutes.GET("/overrides", h.getOverrides)
		tripRoutes.PUT("/overrides/:startPositionId", h.putOverride)
		tripRoutes.POST("/overrides", h.bulkSaveOverrides)
	}
}

func (h *Handler) getOverrides(c *gin.Context) {
	var deviceID *int
	if raw := c.Query("deviceId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid device id"})
			return
		}
		deviceID = &id
	}

	overrides, err := h.repository.GetOverrides(deviceID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trip overrides", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, overrides)
}

func (h *Handler) putOverride(c *gin.Context) {
	startPositionID, err := strconv.ParseInt(c.Param("startPositionId"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid start position id"})
		return
	}

	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	if req.DeviceID == 0 || !isObject(req.Edited) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: deviceId, edited"})
		return
	}

	saved, err := h.repository.SaveOverride(models.TripOverride{
		StartPositionID: startPositionID,
		DeviceID:        req.DeviceID,
		Edited:          req.Edited,
	})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trip override", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, saved)
}

// bulkSaveOverrides upserts every valid entry and silently skips the
// malformed ones, mirroring the single-override contract.
func (h *Handler) bulkSaveOverrides(c *gin.Context) {
	var req BulkOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Items == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	}

	overrides := make([]models.TripOverride, 0, len(req.Items))
	for key, item := range req.Items {
		startPositionID, err := strconv.ParseInt(key, 10, 64)
		if err != nil || item.DeviceID == 0 || !isObject(item.Edited) {
			continue
		}
		overrides = append(overrides, models.TripOverride{
			StartPositionID: startPositionID,
			DeviceID:        item.DeviceID,
			Edited:          item.Edited,
		})
	}

	saved, err := h.repository.SaveOverrides(overrides)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trip overrides", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": len(saved), "overrides": saved})
}

// isObject reports whether the raw message is a JSON object, the only
// shape the override patch may take.
func isObject(raw json.RawMessage) bool {
	var edited map[string]interface{}
	return raw != nil && json.Unmarshal(raw, &edited) == nil && edited != nil
}
