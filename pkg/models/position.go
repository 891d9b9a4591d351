package models

import "time"

// Position maps a row of the tracking platform's tc_positions table.
// The attributes column is raw JSON text; derived telemetry (distance,
// totalDistance, motion) lives inside it next to whatever keys the
// platform or the caller already stored.
type Position struct {
	ID         int       `json:"id" db:"id"`
	DeviceID   int       `json:"deviceId" db:"deviceid"`
	Protocol   string    `json:"protocol" db:"protocol"`
	ServerTime time.Time `json:"serverTime" db:"servertime"`
	DeviceTime time.Time `json:"deviceTime" db:"devicetime"`
	FixTime    time.Time `json:"fixTime" db:"fixtime"`
	Valid      bool      `json:"valid" db:"valid"`
	Latitude   float64   `json:"latitude" db:"latitude"`
	Longitude  float64   `json:"longitude" db:"longitude"`
	Altitude   float64   `json:"altitude" db:"altitude"`
	Speed      float64   `json:"speed" db:"speed"`
	Course     float64   `json:"course" db:"course"`
	Address    *string   `json:"address" db:"address"`
	Attributes *string   `json:"-" db:"attributes"`
	Accuracy   float64   `json:"accuracy" db:"accuracy"`
	Network    *string   `json:"-" db:"network"`
}

// PositionView is the public projection returned by the positions API.
type PositionView struct {
	ID        int       `json:"id" db:"id"`
	DeviceID  int       `json:"deviceId" db:"deviceid"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Speed     float64   `json:"speed" db:"speed"`
	Address   *string   `json:"address" db:"address"`
	FixTime   time.Time `json:"fixTime" db:"fixtime"`
}

func (p *Position) View() PositionView {
	return PositionView{
		ID:        p.ID,
		DeviceID:  p.DeviceID,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Speed:     p.Speed,
		Address:   p.Address,
		FixTime:   p.FixTime,
	}
}
