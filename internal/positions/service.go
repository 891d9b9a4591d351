package positions

import (
	"time"

	custom_error "github.com/accretegeo-dev/traccar-backend/pkg/errors"
	"github.com/accretegeo-dev/traccar-backend/pkg/models"
)

const defaultProtocol = "web"

// Day boundaries for bulk copy are UTC calendar days.
const dayFormat = "2006-01-02"

// Service runs the mutation flows: each one resolves the relevant
// chronological neighbor, derives telemetry and persists the result while
// holding the device's lock.
type Service struct {
	store Store
	locks *DeviceLocker
}

func NewService(store Store) *Service {
	return &Service{store: store, locks: NewDeviceLocker()}
}

type CreateRequest struct {
	DeviceID  int        `json:"deviceId"`
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Speed     float64    `json:"speed"`
	Address   *string    `json:"address"`
	FixTime   *time.Time `json:"fixTime"`
}

type UpdateRequest struct {
	Latitude  *float64   `json:"latitude"`
	Longitude *float64   `json:"longitude"`
	Speed     *float64   `json:"speed"`
	Address   *string    `json:"address"`
	FixTime   *time.Time `json:"fixTime"`
}

type CopyRequest struct {
	DeviceID   int    `json:"deviceId"`
	SourceDate string `json:"sourceDate"`
	TargetDate string `json:"targetDate"`
}

type CopyResult struct {
	Count     int                   `json:"count"`
	Positions []models.PositionView `json:"positions"`
}

// Create appends a position for a device. The predecessor is the
// device's highest-fixtime row; passthrough fields default from it and
// the attribute document is carried forward with the derived keys
// overwritten.
func (s *Service) Create(req CreateRequest) (models.PositionView, error) {
	if req.DeviceID == 0 || req.Latitude == nil || req.Longitude == nil {
		return models.PositionView{}, custom_error.NewValidationError("missing required fields: deviceId, latitude, longitude")
	}

	now := time.Now().UTC()
	fixTime := now
	if req.FixTime != nil {
		fixTime = req.FixTime.UTC()
	}

	s.locks.Lock(req.DeviceID)
	defer s.locks.Unlock(req.DeviceID)

	prev, err := s.store.FindLatestPosition(req.DeviceID)
	if err != nil {
		return models.PositionView{}, err
	}

	record := InsertRecord{
		Protocol:   defaultProtocol,
		DeviceID:   req.DeviceID,
		ServerTime: now,
		DeviceTime: fixTime,
		FixTime:    fixTime,
		Valid:      true,
		Latitude:   *req.Latitude,
		Longitude:  *req.Longitude,
		Address:    req.Address,
	}

	existing := Attributes{}
	fallbackCourse := 0.0
	if prev != nil {
		if prev.Protocol != "" {
			record.Protocol = prev.Protocol
		}
		record.Altitude = prev.Altitude
		record.Accuracy = prev.Accuracy
		record.Network = prev.Network
		existing = DecodeAttributes(prev.Attributes)
		fallbackCourse = prev.Course
	}

	derived := Derive(prev, *req.Latitude, *req.Longitude, fixTime, req.Speed, fallbackCourse, existing)
	record.Speed = derived.Speed
	record.Course = derived.Course
	encoded := derived.Attributes.Encode()
	record.Attributes = &encoded

	return s.store.InsertPosition(record)
}

// Update edits a position and re-derives its telemetry against whatever
// now precedes it chronologically. The predecessor is resolved at the
// post-edit fix time, so moving a position across its neighbors re-links
// it correctly.
func (s *Service) Update(id int, req UpdateRequest) (models.PositionView, error) {
	current, err := s.store.GetPosition(id)
	if err != nil {
		return models.PositionView{}, err
	}
	if current == nil {
		return models.PositionView{}, custom_error.NewNotFoundError("position")
	}

	s.locks.Lock(current.DeviceID)
	defer s.locks.Unlock(current.DeviceID)

	targetLat := current.Latitude
	if req.Latitude != nil {
		targetLat = *req.Latitude
	}
	targetLon := current.Longitude
	if req.Longitude != nil {
		targetLon = *req.Longitude
	}
	targetFix := current.FixTime
	if req.FixTime != nil {
		targetFix = req.FixTime.UTC()
	}
	speed := current.Speed
	if req.Speed != nil {
		speed = *req.Speed
	}

	prev, err := s.store.FindLatestPositionBefore(current.DeviceID, targetFix)
	if err != nil {
		return models.PositionView{}, err
	}

	derived := Derive(prev, targetLat, targetLon, targetFix, speed, current.Course, DecodeAttributes(current.Attributes))

	return s.store.UpdatePosition(id, UpdateRecord{
		Latitude:   targetLat,
		Longitude:  targetLon,
		Speed:      derived.Speed,
		FixTime:    targetFix,
		Course:     derived.Course,
		Attributes: derived.Attributes.Encode(),
		Address:    req.Address,
	})
}

// CopyToDate duplicates a UTC calendar day of positions onto another day,
// shifting the three timestamps by a constant offset. Attribute
// documents, including the derived keys, are copied verbatim: the shape
// of the day's trip is preserved, so cumulative totals are not
// recomputed against the target day's neighbors.
func (s *Service) CopyToDate(req CopyRequest) (CopyResult, error) {
	if req.DeviceID == 0 || req.SourceDate == "" || req.TargetDate == "" {
		return CopyResult{}, custom_error.NewValidationError("missing required fields: deviceId, sourceDate, targetDate")
	}

	sourceStart, err := time.Parse(dayFormat, req.SourceDate)
	if err != nil {
		return CopyResult{}, custom_error.NewValidationError("sourceDate must be formatted as YYYY-MM-DD")
	}
	targetStart, err := time.Parse(dayFormat, req.TargetDate)
	if err != nil {
		return CopyResult{}, custom_error.NewValidationError("targetDate must be formatted as YYYY-MM-DD")
	}

	sourceEnd := sourceStart.Add(24*time.Hour - time.Millisecond)
	offset := targetStart.Sub(sourceStart)

	s.locks.Lock(req.DeviceID)
	defer s.locks.Unlock(req.DeviceID)

	source, err := s.store.FindPositionsInWindow(req.DeviceID, sourceStart, sourceEnd)
	if err != nil {
		return CopyResult{}, err
	}
	if len(source) == 0 {
		return CopyResult{}, custom_error.NewNotFoundError("positions for the source date")
	}

	// Sequential inserts, no rollback: a failure partway through leaves
	// the already-copied rows in place.
	inserted := make([]models.PositionView, 0, len(source))
	for _, pos := range source {
		view, err := s.store.InsertPosition(InsertRecord{
			Protocol:   pos.Protocol,
			DeviceID:   pos.DeviceID,
			ServerTime: pos.ServerTime.Add(offset),
			DeviceTime: pos.DeviceTime.Add(offset),
			FixTime:    pos.FixTime.Add(offset),
			Valid:      pos.Valid,
			Latitude:   pos.Latitude,
			Longitude:  pos.Longitude,
			Altitude:   pos.Altitude,
			Speed:      pos.Speed,
			Course:     pos.Course,
			Address:    pos.Address,
			Attributes: pos.Attributes,
			Accuracy:   pos.Accuracy,
			Network:    pos.Network,
		})
		if err != nil {
			return CopyResult{}, err
		}
		inserted = append(inserted, view)
	}

	return CopyResult{Count: len(inserted), Positions: inserted}, nil
}
