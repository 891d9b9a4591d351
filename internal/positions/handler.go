package positions

import (
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	custom_error "github.com/accretegeo-dev/traccar-backend/pkg/errors"
)

type Handler struct {
	service *Service
	store   Store
	logger  *zap.Logger
}

func NewHandler(store Store, logger *zap.Logger) *Handler {
	return &Handler{
		service: NewService(store),
		store:   store,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	positionRoutes := router.Group("/custom-positions")
	{
		positionRoutes.GET("", h.listPositions)
		positionRoutes.GET("/csv", h.exportPositionsCsv)
		positionRoutes.GET("/range", h.getPositionsByDateRange)
		positionRoutes.POST("/copy", h.copyPositionsToDate)
		positionRoutes.GET("/:id", h.getPosition)
		positionRoutes.POST("", h.createPosition)
		positionRoutes.PUT("/:id", h.updatePosition)
		positionRoutes.DELETE("/:id", h.deletePosition)
	}
}

func (h *Handler) listPositions(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.store.ListPositions(filter)
	if err != nil {
		h.logger.Error("Failed to fetch positions", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch positions"})
		return
	}

	c.JSON(http.StatusOK, views)
}

var csvHeader = []string{"id", "deviceId", "latitude", "longitude", "speed", "address", "fixTime"}

func (h *Handler) exportPositionsCsv(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.store.ListPositions(filter)
	if err != nil {
		h.logger.Error("Failed to export positions", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to export positions"})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="positions.csv"`)
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	_ = writer.Write(csvHeader)
	for _, view := range views {
		address := ""
		if view.Address != nil {
			address = *view.Address
		}
		_ = writer.Write([]string{
			strconv.Itoa(view.ID),
			strconv.Itoa(view.DeviceID),
			strconv.FormatFloat(view.Latitude, 'f', -1, 64),
			strconv.FormatFloat(view.Longitude, 'f', -1, 64),
			strconv.FormatFloat(view.Speed, 'f', -1, 64),
			address,
			view.FixTime.UTC().Format(time.RFC3339),
		})
	}
	writer.Flush()
}

func (h *Handler) getPositionsByDateRange(c *gin.Context) {
	deviceID := c.Query("deviceId")
	fromDate := c.Query("fromDate")
	toDate := c.Query("toDate")
	if deviceID == "" || fromDate == "" || toDate == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing required query params: deviceId, fromDate, toDate"})
		return
	}

	deviceIDInt, err := strconv.Atoi(deviceID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid device id"})
		return
	}
	from, err := parseTimestamp(fromDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate"})
		return
	}
	to, err := parseTimestamp(toDate)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate"})
		return
	}

	views, err := h.store.ListPositions(ListFilter{DeviceIDs: []int{deviceIDInt}, From: &from, To: &to})
	if err != nil {
		h.logger.Error("Failed to fetch positions", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch positions"})
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) getPosition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid position id"})
		return
	}

	position, err := h.store.GetPosition(id)
	if err != nil {
		h.logger.Error("Failed to fetch position", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch position"})
		return
	}
	if position == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Position not found"})
		return
	}

	c.JSON(http.StatusOK, position.View())
}

func (h *Handler) createPosition(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	view, err := h.service.Create(req)
	if err != nil {
		h.respondWithError(c, err, "Failed to create position")
		return
	}

	c.JSON(http.StatusCreated, view)
}

func (h *Handler) updatePosition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid position id"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	view, err := h.service.Update(id, req)
	if err != nil {
		h.respondWithError(c, err, "Failed to update position")
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) copyPositionsToDate(c *gin.Context) {
	var req CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.service.CopyToDate(req)
	if err != nil {
		h.respondWithError(c, err, "Failed to copy positions")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Successfully copied " + strconv.Itoa(result.Count) + " positions",
		"count":     result.Count,
		"positions": result.Positions,
	})
}

// deletePosition removes a position outright. Neighbors are not
// re-derived; the next mutation touching them recomputes their telemetry.
func (h *Handler) deletePosition(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid position id"})
		return
	}

	view, err := h.store.DeletePosition(id)
	if err != nil {
		h.respondWithError(c, err, "Failed to delete position")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Position deleted successfully", "position": view})
}

func (h *Handler) respondWithError(c *gin.Context, err error, fallback string) {
	var validationErr *custom_error.ValidationError
	var notFoundErr *custom_error.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func parseListFilter(c *gin.Context) (ListFilter, error) {
	var filter ListFilter

	for _, raw := range c.QueryArray("deviceId") {
		id, err := strconv.Atoi(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid deviceId filter")
		}
		filter.DeviceIDs = append(filter.DeviceIDs, id)
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseTimestamp(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid from filter")
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseTimestamp(raw)
		if err != nil {
			return ListFilter{}, errors.New("invalid to filter")
		}
		filter.To = &to
	}

	return filter, nil
}

// parseTimestamp accepts RFC 3339 timestamps or bare UTC calendar days.
func parseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dayFormat, value)
}
