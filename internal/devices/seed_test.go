package devices

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUpserter struct {
	mock.Mock
}

func (m *MockUpserter) UpsertDevice(name, uniqueID string) error {
	args := m.Called(name, uniqueID)
	return args.Error(0)
}

func TestSeedUpsertsEveryDemoDevice(t *testing.T) {
	mockUpserter := new(MockUpserter)
	for _, device := range seedDevices {
		mockUpserter.On("UpsertDevice", device.Name, device.UniqueID).Return(nil).Once()
	}

	assert.NoError(t, Seed(mockUpserter))
	mockUpserter.AssertExpectations(t)
}

func TestSeedPropagatesUpsertFailure(t *testing.T) {
	mockUpserter := new(MockUpserter)
	mockUpserter.On("UpsertDevice", "Vehicle 1", "DEVICE001").
		Return(errors.New("connection refused")).Once()

	err := Seed(mockUpserter)

	assert.Error(t, err)
	mockUpserter.AssertNotCalled(t, "UpsertDevice", "Vehicle 2", "DEVICE002")
}
