package ctdf

import "time"

type CommuteStatus struct {
	AnyDisruptions bool `json:"anyDisruptions"`
}

// CommuteStatusRecord is a single scheduled poll result kept for later analysis.
type CommuteStatusRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	AnyDisruptions bool      `json:"anyDisruptions"`
	Failed         bool      `json:"failed"`
	Notified       bool      `json:"notified"`
	Poll           int       `json:"poll"`
}
