package ctdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduleStartTime(t *testing.T) {
	hour := 6
	minute := 45

	assert.Equal(t, NewClockTime(7, 10), (&ScheduleSetting{}).StartTime())
	assert.Equal(t, NewClockTime(6, 10), (&ScheduleSetting{Hour: &hour}).StartTime())
	assert.Equal(t, NewClockTime(6, 45), (&ScheduleSetting{Hour: &hour, Minute: &minute}).StartTime())
}

func TestScheduleWorkingFromHome(t *testing.T) {
	setting := &ScheduleSetting{WorkingFromHome: []string{"Monday", "Friday"}}

	assert.True(t, setting.IsWorkingFromHome(time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)))
	assert.False(t, setting.IsWorkingFromHome(time.Date(2026, 10, 20, 8, 0, 0, 0, time.UTC)))
	assert.True(t, setting.IsWorkingFromHome(time.Date(2026, 10, 23, 8, 0, 0, 0, time.UTC)))
}
