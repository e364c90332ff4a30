package commute

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/sources/transportapi"
)

type TrainSource interface {
	NextTrain(ctx context.Context, query transportapi.TrainQuery) (*transportapi.TrainResult, error)
}

type TubeSource interface {
	TubeStatus(ctx context.Context, line string) (*ctdf.Leg, error)
	NextTube(ctx context.Context, line string, startID string, endID string) (*ctdf.Leg, error)
}

var errTrainsDisrupted = errors.New("trains are disrupted")

type Service struct {
	Routes *RouteTable

	Trains TrainSource
	Tubes  TubeSource

	Now func() time.Time
}

func NewService(routes *RouteTable, trains TrainSource, tubes TubeSource) *Service {
	return &Service{
		Routes: routes,
		Trains: trains,
		Tubes:  tubes,
		Now:    time.Now,
	}
}

func (s *Service) now() ctdf.ClockTime {
	if s.Now == nil {
		return ctdf.ClockTimeFromTime(time.Now())
	}

	return ctdf.ClockTimeFromTime(s.Now())
}

// GetCommuteStatus checks the trains in both directions. A direction that
// cannot be checked is treated as disrupted. The only error returned is the
// context being done.
func (s *Service) GetCommuteStatus(ctx context.Context) (*ctdf.CommuteStatus, error) {
	status := &ctdf.CommuteStatus{}

	for _, direction := range []*Direction{&s.Routes.ToWork, &s.Routes.ToHome} {
		train := direction.Train()

		if s.trainsDisrupted(ctx, train.From, train.To, 0) {
			status.AnyDisruptions = true
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return status, nil
}

func (s *Service) trainsDisrupted(ctx context.Context, from string, to string, offset int) bool {
	result, err := s.Trains.NextTrain(ctx, transportapi.TrainQuery{
		StartID:             from,
		EndID:               to,
		DepartureTimeOffset: offset,
		DisruptionsOnly:     true,
	})
	if err != nil {
		log.Error().Err(err).Str("from", from).Str("to", to).Msg("Failed to check train disruptions")
		return true
	}

	return result.AnyDisruptions
}

// GetCommute works out the journey to make from the given location. Callers
// near home get the journey to work and callers near work get the journey
// home. Anything that prevents a journey being built is an *UnroutableError,
// except for unreadable coordinates which are a parameter error.
func (s *Service) GetCommute(ctx context.Context, lat string, long string) ([]ctdf.Journey, error) {
	latitude, err := parseCoordinate("lat", lat, 90)
	if err != nil {
		return nil, err
	}
	longitude, err := parseCoordinate("long", long, 180)
	if err != nil {
		return nil, err
	}

	atHome := s.Routes.Geofences.Home.Contains(latitude, longitude)
	atWork := s.Routes.Geofences.Work.Contains(latitude, longitude)

	log.Debug().Bool("atHome", atHome).Bool("atWork", atWork).Msg("Resolved commute location")

	if !atHome && !atWork {
		return nil, unresolvableLocation()
	}

	now := s.now()
	journeys := []ctdf.Journey{}

	if atHome {
		journey, err := s.compose(ctx, &s.Routes.ToWork, now)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, *journey)
	}

	if atWork {
		journey, err := s.compose(ctx, &s.Routes.ToHome, now)
		if err != nil {
			return nil, err
		}
		journeys = append(journeys, *journey)
	}

	return journeys, nil
}

// parseCoordinate accepts plain decimal degrees within ±limit. NaN, infinities
// and hex floats are rejected even though strconv would parse them.
func parseCoordinate(name string, value string, limit float64) (float64, error) {
	value = strings.TrimSpace(value)

	if strings.ContainsAny(value, "xXpP") {
		return 0, sources.InvalidParameter("%s %q is not a number", name, value)
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, sources.InvalidParameter("%s %q is not a number", name, value)
	}
	if parsed < -limit || parsed > limit {
		return 0, sources.InvalidParameter("%s %q is out of range", name, value)
	}

	return parsed, nil
}

func (s *Service) compose(ctx context.Context, direction *Direction, now ctdf.ClockTime) (*ctdf.Journey, error) {
	legs, err := s.timeLegs(ctx, direction.Primary, now)
	if err == nil {
		return &ctdf.Journey{Legs: legs}, nil
	}
	if !errors.Is(err, errTrainsDisrupted) {
		return nil, commuteError(err)
	}

	status, err := s.Tubes.TubeStatus(ctx, direction.Fallback.Line)
	if err != nil {
		return nil, commuteError(err)
	}
	if status.Disruptions {
		return nil, bothRoutesDisrupted(status.Line)
	}

	log.Info().Str("line", status.Line).Msg("Trains are disrupted, using fallback route")

	legs, err = s.timeLegs(ctx, direction.Fallback.Legs, now)
	if err != nil {
		return nil, commuteError(err)
	}

	return &ctdf.Journey{Legs: legs}, nil
}

// timeLegs turns templates into legs, each departing when the previous one
// arrives plus its lead time.
func (s *Service) timeLegs(ctx context.Context, templates []LegTemplate, now ctdf.ClockTime) ([]ctdf.Leg, error) {
	legs := make([]ctdf.Leg, 0, len(templates))
	departure := now

	for _, template := range templates {
		departure = departure.AddMinutes(template.LeadMinutes)

		var leg ctdf.Leg
		if err := copier.Copy(&leg, &template); err != nil {
			return nil, err
		}

		switch template.Mode {
		case ctdf.TransportModeWalk:
			leg.Line = ctdf.WalkingLine
			leg.Depart(departure)
		case ctdf.TransportModeBus:
			leg.Depart(departure)
		case ctdf.TransportModeTube:
			tube, err := s.Tubes.NextTube(ctx, template.Line, template.From, template.To)
			if err != nil {
				return nil, err
			}

			leg.Line = tube.Line
			leg.Duration = tube.Duration
			leg.Disruptions = tube.Disruptions
			leg.DisruptionDetails = tube.DisruptionDetails
			if tube.DepartureStation != "" {
				leg.DepartureStation = tube.DepartureStation
			}
			if tube.ArrivalStation != "" {
				leg.ArrivalStation = tube.ArrivalStation
			}
			leg.Depart(departure)
		case ctdf.TransportModeTrain:
			train, err := s.nextTrain(ctx, template, now.MinutesUntil(departure))
			if err != nil {
				return nil, err
			}
			leg = *train
		default:
			return nil, fmt.Errorf("unsupported leg mode %q", template.Mode)
		}

		arrival, ok := leg.Arrival()
		if !ok {
			return nil, fmt.Errorf("%s leg from %s has no arrival time", leg.Mode, leg.DepartureStation)
		}
		departure = arrival

		legs = append(legs, leg)
	}

	return legs, nil
}

func (s *Service) nextTrain(ctx context.Context, template LegTemplate, offset int) (*ctdf.Leg, error) {
	if s.trainsDisrupted(ctx, template.From, template.To, offset) {
		return nil, errTrainsDisrupted
	}

	result, err := s.Trains.NextTrain(ctx, transportapi.TrainQuery{
		StartID:             template.From,
		EndID:               template.To,
		DepartureTimeOffset: offset,
	})
	if err != nil {
		return nil, err
	}
	if result.NoService || len(result.Legs) == 0 {
		return nil, fmt.Errorf("%w: no trains from %s to %s", sources.ErrNoService, template.From, template.To)
	}

	return &result.Legs[0], nil
}
