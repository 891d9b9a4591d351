package trips

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupTripRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Validation failures never reach the repository.
	handler := NewHandler(nil)
	handler.RegisterRoutes(router.Group("/node-api"))
	return router
}

func TestIsObject(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected bool
	}{
		{name: "object", raw: `{"startTime": "2025-06-01T08:00:00Z"}`, expected: true},
		{name: "empty object", raw: `{}`, expected: true},
		{name: "array", raw: `[1, 2]`, expected: false},
		{name: "string", raw: `"edited"`, expected: false},
		{name: "number", raw: `42`, expected: false},
		{name: "null", raw: `null`, expected: false},
		{name: "malformed", raw: `{"unterminated`, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isObject(json.RawMessage(tt.raw)))
		})
	}

	assert.False(t, isObject(nil))
}

func TestPutOverrideInvalidStartPositionID(t *testing.T) {
	router := setupTripRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/node-api/custom-trips/overrides/abc", strings.NewReader(`{"deviceId": 1, "edited": {}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutOverrideRejectsNonObjectPatch(t *testing.T) {
	router := setupTripRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/node-api/custom-trips/overrides/10", strings.NewReader(`{"deviceId": 1, "edited": [1, 2]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPutOverrideRequiresDevice(t *testing.T) {
	router := setupTripRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/node-api/custom-trips/overrides/10", strings.NewReader(`{"edited": {}}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBulkSaveRejectsMissingItems(t *testing.T) {
	router := setupTripRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/node-api/custom-trips/overrides", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOverridesInvalidDeviceFilter(t *testing.T) {
	router := setupTripRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-trips/overrides?deviceId=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
