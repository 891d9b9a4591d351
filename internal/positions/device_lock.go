package positions

import "sync"

// DeviceLocker serializes the resolve-then-write sequence per device.
// Without it, two concurrent mutations for the same device could both
// read the same stale predecessor and persist inconsistent distance and
// totalDistance values.
type DeviceLocker struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewDeviceLocker() *DeviceLocker {
	return &DeviceLocker{locks: make(map[int]*sync.Mutex)}
}

func (l *DeviceLocker) Lock(deviceID int) {
	l.mu.Lock()
	m, ok := l.locks[deviceID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[deviceID] = m
	}
	l.mu.Unlock()

	m.Lock()
}

func (l *DeviceLocker) Unlock(deviceID int) {
	l.mu.Lock()
	m := l.locks[deviceID]
	l.mu.Unlock()

	if m != nil {
		m.Unlock()
	}
}
