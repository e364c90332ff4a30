package ctdf

import (
	"time"

	"golang.org/x/exp/slices"
)

const (
	DefaultScheduleHour   = 7
	DefaultScheduleMinute = 10
)

type ScheduleSetting struct {
	Name   string `bson:"name"`
	Active bool   `bson:"active"`

	Hour   *int `bson:"hour"`
	Minute *int `bson:"minute"`

	WorkingFromHome []string `bson:"workingfromhome"`
}

// StartTime falls back to 07:10 for any part of the schedule that was left unset.
func (s *ScheduleSetting) StartTime() ClockTime {
	hour := DefaultScheduleHour
	minute := DefaultScheduleMinute

	if s.Hour != nil {
		hour = *s.Hour
	}
	if s.Minute != nil {
		minute = *s.Minute
	}

	return NewClockTime(hour, minute)
}

func (s *ScheduleSetting) IsWorkingFromHome(date time.Time) bool {
	return slices.Contains(s.WorkingFromHome, date.Weekday().String())
}
