package devices

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	repository *DeviceRepository
}

func NewHandler(repository *DeviceRepository) *Handler {
	return &Handler{repository: repository}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	deviceRoutes := router.Group("/devices")
	{
		deviceRoutes.GET("", h.getDevices)
		deviceRoutes.GET("/:id", h.getDevice)
	}
}

func (h *Handler) getDevices(c *gin.Context) {
	devices, err := h.repository.GetDevices()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch devices", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, devices)
}

func (h *Handler) getDevice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid device id"})
		return
	}

	device, err := h.repository.GetDevice(id)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch device", "details": err.Error()})
		return
	}
	if device == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Device not found"})
		return
	}

	c.JSON(http.StatusOK, device)
}
