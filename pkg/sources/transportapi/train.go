package transportapi

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/util"
	"golang.org/x/exp/slices"
)

const (
	MaxJourneys = 3

	NoTrainsRunning = "No trains running"

	defaultOperator = "Network rail"
	unknownPlatform = "N/A"
)

var disruptedStatuses = []string{"cancelled", "it is currently off route"}

type TrainQuery struct {
	StartID string
	EndID   string

	// Minutes from now before which departures are ignored.
	DepartureTimeOffset int

	DisruptionsOnly bool
	NextTrainOnly   bool
}

type TrainResult struct {
	Legs           []ctdf.Leg
	AnyDisruptions bool
	NoService      bool
}

type liveDepartures struct {
	StationName string `json:"station_name"`
	StationCode string `json:"station_code"`
	TimeOfDay   string `json:"time_of_day"`
	Departures  struct {
		All []Departure `json:"all"`
	} `json:"departures"`
}

type Departure struct {
	OperatorName       *string `json:"operator_name"`
	OriginName         string  `json:"origin_name"`
	DestinationName    string  `json:"destination_name"`
	AimedDepartureTime string  `json:"aimed_departure_time"`
	Platform           *string `json:"platform"`
	Status             string  `json:"status"`
	ServiceTimetable   struct {
		ID string `json:"id"`
	} `json:"service_timetable"`

	departureTime ctdf.ClockTime
}

func (d *Departure) Disrupted() bool {
	return slices.Contains(disruptedStatuses, strings.ToLower(d.Status))
}

type serviceTimetable struct {
	Stops []struct {
		StationCode      string `json:"station_code"`
		StationName      string `json:"station_name"`
		AimedArrivalTime string `json:"aimed_arrival_time"`
	} `json:"stops"`
}

// NextTrain looks up live departures from StartID calling at EndID. In
// disruptions-only mode the per-departure timetable lookups are skipped and
// only AnyDisruptions is meaningful.
func (c *Client) NextTrain(ctx context.Context, query TrainQuery) (*TrainResult, error) {
	startID := strings.ToUpper(strings.TrimSpace(query.StartID))
	endID := strings.ToUpper(strings.TrimSpace(query.EndID))

	switch {
	case startID == "":
		return nil, sources.MissingParameter("startID")
	case endID == "":
		return nil, sources.MissingParameter("endID")
	case query.DepartureTimeOffset < 0:
		return nil, sources.InvalidParameter("departure time offset %d is negative", query.DepartureTimeOffset)
	}

	values := url.Values{
		"train_status": []string{"passenger"},
		"calling_at":   []string{endID},
	}
	if query.DepartureTimeOffset > 0 {
		values.Set("from_offset", fmt.Sprintf("PT%s:00", util.FormatOffset(query.DepartureTimeOffset)))
	}

	var live liveDepartures
	requestURL := c.requestURL(fmt.Sprintf("uk/train/station/%s/live.json", url.PathEscape(startID)), values)
	if err := sources.GetJSON(ctx, c.httpClient(), providerName, requestURL, &live); err != nil {
		return nil, err
	}

	departures := SelectDepartures(live.Departures.All, query.NextTrainOnly, c.boardTime(live))
	if len(departures) == 0 {
		log.Info().Str("from", startID).Str("to", endID).Msg("No trains running")
		return noService(), nil
	}

	result := &TrainResult{}
	for _, departure := range departures {
		if departure.Disrupted() {
			result.AnyDisruptions = true
		}

		if query.DisruptionsOnly {
			continue
		}

		leg, err := c.departureLeg(ctx, departure, endID)
		if err != nil {
			log.Error().Err(err).
				Str("from", startID).
				Str("to", endID).
				Str("departure", departure.AimedDepartureTime).
				Msg("Skipping departure without timetable")
			continue
		}
		leg.DepartureStation = live.StationName

		result.Legs = append(result.Legs, *leg)
	}

	if !query.DisruptionsOnly && len(result.Legs) == 0 {
		log.Info().Str("from", startID).Str("to", endID).Msg("No departures with a usable timetable")
		return noService(), nil
	}

	return result, nil
}

func noService() *TrainResult {
	return &TrainResult{
		Legs: []ctdf.Leg{{
			Mode:        ctdf.TransportModeTrain,
			Disruptions: true,
			Status:      NoTrainsRunning,
		}},
		AnyDisruptions: true,
		NoService:      true,
	}
}

// boardTime is the time of day the departure board was produced for, falling
// back to the local clock when the board does not say.
func (c *Client) boardTime(live liveDepartures) ctdf.ClockTime {
	if boardTime, err := ctdf.ParseClockTime(live.TimeOfDay); err == nil {
		return boardTime
	}

	return ctdf.ClockTimeFromTime(c.now())
}

// SelectDepartures drops departures that start and end at the same station,
// orders the rest by aimed departure time relative to reference and keeps the
// first MaxJourneys (or just one when nextOnly is set). Times up to 12 hours
// behind reference count as earlier, so a board spanning midnight keeps 23:58
// ahead of 00:03.
func SelectDepartures(all []Departure, nextOnly bool, reference ctdf.ClockTime) []Departure {
	var departures []Departure
	for _, departure := range all {
		if departure.OriginName == departure.DestinationName {
			continue
		}

		departureTime, err := ctdf.ParseClockTime(departure.AimedDepartureTime)
		if err != nil {
			log.Warn().Err(err).Str("departure", departure.AimedDepartureTime).Msg("Ignoring departure with unreadable time")
			continue
		}
		departure.departureTime = departureTime

		departures = append(departures, departure)
	}

	slices.SortStableFunc(departures, func(a, b Departure) int {
		return sinceReference(reference, a.departureTime) - sinceReference(reference, b.departureTime)
	})

	limit := MaxJourneys
	if nextOnly {
		limit = 1
	}
	if len(departures) > limit {
		departures = departures[:limit]
	}

	return departures
}

func sinceReference(reference ctdf.ClockTime, t ctdf.ClockTime) int {
	minutes := reference.MinutesUntil(t)
	if minutes >= 12*60 {
		minutes -= 24 * 60
	}

	return minutes
}

func (c *Client) departureLeg(ctx context.Context, departure Departure, endID string) (*ctdf.Leg, error) {
	if departure.ServiceTimetable.ID == "" {
		return nil, errors.New("departure has no service timetable")
	}

	var timetable serviceTimetable
	if err := sources.GetJSON(ctx, c.httpClient(), providerName, c.authenticate(departure.ServiceTimetable.ID, nil), &timetable); err != nil {
		return nil, err
	}

	for _, stop := range timetable.Stops {
		if !strings.EqualFold(stop.StationCode, endID) {
			continue
		}

		arrivalTime, err := ctdf.ParseClockTime(stop.AimedArrivalTime)
		if err != nil {
			return nil, fmt.Errorf("arrival time at %s: %w", endID, err)
		}

		leg := &ctdf.Leg{
			Mode:              ctdf.TransportModeTrain,
			Line:              defaultOperator,
			Disruptions:       departure.Disrupted(),
			FinalDestination:  departure.DestinationName,
			Duration:          departure.departureTime.MinutesUntil(arrivalTime),
			DeparturePlatform: unknownPlatform,
			ArrivalStation:    stop.StationName,
			Status:            strings.ToLower(departure.Status),
		}
		if departure.OperatorName != nil && *departure.OperatorName != "" {
			leg.Line = *departure.OperatorName
		}
		if departure.Platform != nil && *departure.Platform != "" {
			leg.DeparturePlatform = *departure.Platform
		}

		departureTime := departure.departureTime
		leg.DepartureTime = &departureTime
		leg.ArrivalTime = &arrivalTime

		return leg, nil
	}

	return nil, fmt.Errorf("service does not call at %s", endID)
}
