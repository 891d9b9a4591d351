package models

import "encoding/json"

// TripOverride stores a user-edited patch for the trip starting at the
// given position. The edited document is kept verbatim; this subsystem
// never interprets it.
type TripOverride struct {
	StartPositionID int64           `json:"startPositionId" db:"start_position_id"`
	DeviceID        int             `json:"deviceId" db:"device_id"`
	Edited          json.RawMessage `json:"edited" db:"edited"`
}
