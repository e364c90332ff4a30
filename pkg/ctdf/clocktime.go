package ctdf

import (
	"encoding/json"
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

const ClockTimeFormat = "15:04"

// ClockTime is a wall-clock time of day held as minutes past midnight.
// There is no date component so arithmetic wraps around midnight.
type ClockTime int

func NewClockTime(hour int, minute int) ClockTime {
	return ClockTime(0).AddMinutes(hour*60 + minute)
}

func ClockTimeFromTime(t time.Time) ClockTime {
	return NewClockTime(t.Hour(), t.Minute())
}

func ParseClockTime(value string) (ClockTime, error) {
	parsed, err := time.Parse(ClockTimeFormat, value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", value, err)
	}

	return NewClockTime(parsed.Hour(), parsed.Minute()), nil
}

func (c ClockTime) Hour() int {
	return int(c) / 60
}

func (c ClockTime) Minute() int {
	return int(c) % 60
}

func (c ClockTime) AddMinutes(minutes int) ClockTime {
	total := (int(c) + minutes) % minutesPerDay
	if total < 0 {
		total += minutesPerDay
	}

	return ClockTime(total)
}

// MinutesUntil returns how many minutes forward from c the clock reaches other,
// so 23:50 to 00:10 is 20 rather than -1420.
func (c ClockTime) MinutesUntil(other ClockTime) int {
	diff := int(other) - int(c)
	if diff < 0 {
		diff += minutesPerDay
	}

	return diff
}

// OnDate places the clock time on the same calendar day as date.
func (c ClockTime) OnDate(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour(), c.Minute(), 0, 0, date.Location())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := ParseClockTime(value)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
