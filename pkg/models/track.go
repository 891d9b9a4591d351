package models

import (
	"time"

	"github.com/lib/pq"
)

// Track is a user-curated route: an ordered list of position ids for one
// device, with optional summary fields supplied by the caller.
type Track struct {
	ID          int           `json:"id" db:"id"`
	DeviceID    int           `json:"deviceId" db:"device_id"`
	Name        string        `json:"name" db:"name"`
	Description *string       `json:"description" db:"description"`
	Positions   pq.Int64Array `json:"positions" db:"positions"`
	Distance    float64       `json:"distance" db:"distance"`
	Duration    int           `json:"duration" db:"duration"`
	StartTime   *time.Time    `json:"startTime" db:"start_time"`
	EndTime     *time.Time    `json:"endTime" db:"end_time"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}
