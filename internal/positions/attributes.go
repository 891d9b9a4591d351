package positions

import (
	"encoding/json"
	"math"
)

// Attributes is the open per-position attribute document stored as JSON
// text in tc_positions. The derivation engine owns three keys in it:
// distance, totalDistance and motion. Everything else passes through.
type Attributes map[string]interface{}

// DecodeAttributes parses stored attribute JSON. Malformed or absent
// input yields an empty document instead of an error; derived telemetry
// must never block a position mutation.
func DecodeAttributes(raw *string) Attributes {
	if raw == nil || *raw == "" {
		return Attributes{}
	}

	var attrs Attributes
	if err := json.Unmarshal([]byte(*raw), &attrs); err != nil || attrs == nil {
		return Attributes{}
	}

	return attrs
}

// Encode serializes the document for storage.
func (a Attributes) Encode() string {
	data, err := json.Marshal(a)
	if err != nil {
		return "{}"
	}

	return string(data)
}

// TotalDistance returns the stored cumulative distance when it is a
// finite number. Anything else means the chain back to a known origin is
// broken.
func (a Attributes) TotalDistance() (float64, bool) {
	value, ok := a["totalDistance"].(float64)
	if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}

	return value, true
}

// SetDerived overwrites the derived keys, leaving all other keys
// untouched. A nil totalDistance is stored as an explicit null.
func (a Attributes) SetDerived(distance float64, totalDistance *float64, motion bool) {
	a["distance"] = distance
	if totalDistance != nil {
		a["totalDistance"] = *totalDistance
	} else {
		a["totalDistance"] = nil
	}
	a["motion"] = motion
}
