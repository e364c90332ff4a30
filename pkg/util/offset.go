package util

import (
	"errors"
	"fmt"

	iso8601 "github.com/senseyeio/duration"
)

var ErrInvalidOffset = errors.New("invalid time offset")

// ParseOffset accepts either an ISO8601 duration (PT10M) or an HH:MM offset
// (00:10) and returns the number of whole minutes it represents.
func ParseOffset(value string) (int, error) {
	if value == "" {
		return 0, nil
	}

	if value[0] == 'P' {
		duration, err := iso8601.ParseISO8601(value)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %s", ErrInvalidOffset, value, err)
		}
		if duration.Y != 0 || duration.M != 0 || duration.W != 0 || duration.D != 0 {
			return 0, fmt.Errorf("%w %q: only time components are supported", ErrInvalidOffset, value)
		}

		return duration.TH*60 + duration.TM + duration.TS/60, nil
	}

	var hours, minutes int
	if _, err := fmt.Sscanf(value, "%d:%d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("%w %q: %s", ErrInvalidOffset, value, err)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w %q", ErrInvalidOffset, value)
	}

	return hours*60 + minutes, nil
}

// FormatOffset renders minutes as the HH:MM form used in query strings.
func FormatOffset(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
