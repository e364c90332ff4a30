package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/elastic_client"
	"github.com/travigo/commute/pkg/notify"
)

const (
	DefaultPollInterval = 2 * time.Minute
	DefaultMaxPolls     = 10
)

var DefaultRearmTime = ctdf.NewClockTime(3, 5)

type StatusSource interface {
	GetCommuteStatus(ctx context.Context) (*ctdf.CommuteStatus, error)
}

type ScheduleSource interface {
	ActiveSchedule(ctx context.Context) (*ctdf.ScheduleSetting, error)
}

type Calendar interface {
	NonWorkingReason(ctx context.Context, date time.Time) (string, error)
}

// Scheduler watches the commute for disruptions each working morning. Once a
// day it is re-armed for the active schedule, and when the schedule starts it
// polls the commute status a fixed number of times, notifying only when the
// disruption status changes.
type Scheduler struct {
	Status    StatusSource
	Schedules ScheduleSource
	Calendar  Calendar
	Notifier  notify.Notifier

	Clock Clock

	PollInterval time.Duration
	MaxPolls     int
	RearmTime    ctdf.ClockTime

	State DisruptionState

	mutex         sync.Mutex
	stopped       bool
	timers        []Timer
	cancelPolling context.CancelFunc
	polling       sync.WaitGroup
}

func New(status StatusSource, schedules ScheduleSource, calendar Calendar, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		Status:       status,
		Schedules:    schedules,
		Calendar:     calendar,
		Notifier:     notifier,
		Clock:        realClock{},
		PollInterval: DefaultPollInterval,
		MaxPolls:     DefaultMaxPolls,
		RearmTime:    DefaultRearmTime,
	}
}

// Setup cancels anything already scheduled, clears the disruption state and
// arms tomorrow's re-arm. Today's activation is only armed when a schedule is
// active and its start time is still ahead.
func (s *Scheduler) Setup(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stopped = false
	s.setup(ctx)
}

func (s *Scheduler) setup(ctx context.Context) {
	s.stop()
	s.State.Reset()

	now := s.Clock.Now()

	setting, err := s.Schedules.ActiveSchedule(ctx)
	switch {
	case err != nil:
		log.Error().Err(err).Msg("Failed to read commute schedule")
	case setting == nil:
		log.Info().Msg("No commute schedules are active")
	default:
		s.armActivation(setting, now)
	}

	rearm := s.RearmTime.OnDate(now.AddDate(0, 0, 1))
	s.timers = append(s.timers, s.Clock.AfterFunc(rearm.Sub(now), s.rearm))

	log.Info().Time("rearm", rearm).Msg("Reset schedules will run")
}

func (s *Scheduler) rearm() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.stopped {
		return
	}

	s.setup(context.Background())
}

func (s *Scheduler) armActivation(setting *ctdf.ScheduleSetting, now time.Time) {
	start := setting.StartTime().OnDate(now)
	if !start.After(now) {
		log.Info().Str("schedule", setting.Name).Time("start", start).Msg("Commute check time has passed for today")
		return
	}

	s.timers = append(s.timers, s.Clock.AfterFunc(start.Sub(now), func() {
		s.activate(setting)
	}))

	log.Info().Str("schedule", setting.Name).Time("start", start).Msg("Commute check scheduled")
}

// Stop cancels every timer and any polling in progress, waiting for the
// polling to finish.
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	s.stopped = true
	s.stop()
	s.mutex.Unlock()

	s.polling.Wait()
}

func (s *Scheduler) stop() {
	for _, timer := range s.timers {
		timer.Stop()
	}
	s.timers = nil

	if s.cancelPolling != nil {
		s.cancelPolling()
		s.cancelPolling = nil
	}
}

func (s *Scheduler) activate(setting *ctdf.ScheduleSetting) {
	now := s.Clock.Now()

	reason, err := s.Calendar.NonWorkingReason(context.Background(), now)
	if err != nil {
		log.Error().Err(err).Msg("Failed to check calendar, skipping commute check")
		return
	}
	if reason == "" && setting.IsWorkingFromHome(now) {
		reason = "working from home"
	}
	if reason != "" {
		log.Info().Str("reason", reason).Msg("Skipping commute check")
		return
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	// Stop may already be waiting on the polling group.
	if s.stopped {
		log.Info().Msg("Scheduler stopped, not checking commute")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelPolling = cancel

	s.polling.Add(1)
	go func() {
		defer s.polling.Done()
		s.pollLoop(ctx)
	}()
}

func (s *Scheduler) pollLoop(ctx context.Context) {
	for poll := 1; poll <= s.MaxPolls; poll++ {
		select {
		case <-ctx.Done():
			return
		case <-s.Clock.After(s.PollInterval):
		}

		s.Poll(ctx, poll)
	}

	log.Info().Int("polls", s.MaxPolls).Msg("Finished checking commute")
}

// Poll checks the commute once and sends a notification if the disruption
// status has changed since the last successful check.
func (s *Scheduler) Poll(ctx context.Context, poll int) {
	record := ctdf.CommuteStatusRecord{
		Timestamp: s.Clock.Now(),
		Poll:      poll,
	}
	defer func() {
		elastic_client.IndexCommuteStatus(record)
	}()

	status, err := s.Status.GetCommuteStatus(ctx)
	if err != nil {
		log.Error().Err(err).Int("poll", poll).Msg("Failed to check commute status")
		record.Failed = true
		return
	}
	record.AnyDisruptions = status.AnyDisruptions

	if !s.State.Transition(status.AnyDisruptions) {
		log.Debug().Bool("disruptions", status.AnyDisruptions).Int("poll", poll).Msg("Commute status unchanged")
		return
	}

	log.Info().Bool("disruptions", status.AnyDisruptions).Int("poll", poll).Msg("Commute status changed")

	if err := s.Notifier.Notify(ctx, notify.DisruptionNotification(status.AnyDisruptions)); err != nil {
		log.Error().Err(err).Msg("Failed to send commute notification")
		return
	}
	record.Notified = true
}
