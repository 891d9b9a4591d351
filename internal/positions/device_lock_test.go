package positions

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeviceLockerSerializesPerDevice(t *testing.T) {
	locker := NewDeviceLocker()

	const workers = 20
	const increments = 50
	counters := make([]int, 3)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		deviceID := (i % 2) + 1
		wg.Add(1)
		go func(deviceID int) {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				locker.Lock(deviceID)
				counters[deviceID]++
				locker.Unlock(deviceID)
			}
		}(deviceID)
	}
	wg.Wait()

	assert.Equal(t, workers/2*increments, counters[1])
	assert.Equal(t, workers/2*increments, counters[2])
}
