package positions

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	custom_error "github.com/accretegeo-dev/traccar-backend/pkg/errors"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

func setupPositionRouter(store Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(store, zap.NewNop())
	handler.RegisterRoutes(router.Group("/node-api"))
	return router
}

func TestListPositionsAppliesFilters(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	var captured ListFilter
	mockStore.On("ListPositions", mock.AnythingOfType("ListFilter")).
		Run(func(args mock.Arguments) { captured = args.Get(0).(ListFilter) }).
		Return([]models.PositionView{{ID: 1, DeviceID: 2}}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-positions?deviceId=2&from=2025-06-01&to=2025-06-02T12:00:00Z", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{2}, captured.DeviceIDs)
	assert.NotNil(t, captured.From)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), captured.From.UTC())
	assert.NotNil(t, captured.To)
	assert.Contains(t, w.Body.String(), `"id":1`)

	mockStore.AssertExpectations(t)
}

func TestListPositionsRejectsBadDeviceFilter(t *testing.T) {
	router := setupPositionRouter(new(MockStore))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-positions?deviceId=abc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPositionNotFound(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	mockStore.On("GetPosition", 42).Return(nil, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-positions/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStore.AssertExpectations(t)
}

func TestGetPositionInvalidID(t *testing.T) {
	router := setupPositionRouter(new(MockStore))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-positions/not-a-number", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreatePositionSuccess(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	mockStore.On("FindLatestPosition", 3).Return(nil, nil).Once()
	mockStore.On("InsertPosition", mock.AnythingOfType("InsertRecord")).
		Return(models.PositionView{ID: 9, DeviceID: 3, Latitude: 52.5, Longitude: 13.4}, nil).Once()

	body := `{"deviceId": 3, "latitude": 52.5, "longitude": 13.4, "speed": 2.5}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/node-api/custom-positions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":9`)
	mockStore.AssertExpectations(t)
}

func TestCreatePositionMissingCoordinates(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	body := `{"deviceId": 3}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/node-api/custom-positions", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "latitude")
	mockStore.AssertNotCalled(t, "InsertPosition", mock.Anything)
}

func TestUpdatePositionMissingFix(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	mockStore.On("GetPosition", 5).Return(nil, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/node-api/custom-positions/5", bytes.NewBufferString(`{"latitude": 1}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStore.AssertExpectations(t)
}

func TestCopyPositionsEmptySource(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	mockStore.On("FindPositionsInWindow", 1, mock.Anything, mock.Anything).
		Return([]models.Position{}, nil).Once()

	body := `{"deviceId": 1, "sourceDate": "2025-06-01", "targetDate": "2025-06-02"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/node-api/custom-positions/copy", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStore.AssertExpectations(t)
}

func TestCopyPositionsReportsCount(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	source := []models.Position{*fixAt(0, 0, day.Add(time.Hour), `{}`)}
	mockStore.On("FindPositionsInWindow", 1, mock.Anything, mock.Anything).
		Return(source, nil).Once()
	mockStore.On("InsertPosition", mock.AnythingOfType("InsertRecord")).
		Return(models.PositionView{ID: 20, DeviceID: 1}, nil).Once()

	body := `{"deviceId": 1, "sourceDate": "2025-06-01", "targetDate": "2025-06-08"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/node-api/custom-positions/copy", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	mockStore.AssertExpectations(t)
}

func TestDeletePositionNotFound(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	mockStore.On("DeletePosition", 8).
		Return(models.PositionView{}, custom_error.NewNotFoundError("position")).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/node-api/custom-positions/8", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockStore.AssertExpectations(t)
}

func TestExportCsv(t *testing.T) {
	mockStore := new(MockStore)
	router := setupPositionRouter(mockStore)

	address := "Depot A"
	fixTime := time.Date(2025, 6, 1, 8, 30, 0, 0, time.UTC)
	mockStore.On("ListPositions", mock.AnythingOfType("ListFilter")).
		Return([]models.PositionView{
			{ID: 1, DeviceID: 2, Latitude: 52.5, Longitude: 13.4, Speed: 3.5, Address: &address, FixTime: fixTime},
		}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-positions/csv", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "positions.csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "id,deviceId,latitude,longitude,speed,address,fixTime", lines[0])
	assert.Equal(t, "1,2,52.5,13.4,3.5,Depot A,2025-06-01T08:30:00Z", lines[1])

	mockStore.AssertExpectations(t)
}

func TestDateRangeRequiresParams(t *testing.T) {
	router := setupPositionRouter(new(MockStore))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/node-api/custom-positions/range?deviceId=1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
