package commute

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/sources/transportapi"
)

const (
	homeLat = "51.4866"
	homeLon = "0.0327"
	workLat = "51.5045"
	workLon = "-0.0865"
)

type fakeTrains struct {
	disrupted map[string]bool
	failing   map[string]bool
	noService bool

	queries []transportapi.TrainQuery
}

func (f *fakeTrains) NextTrain(ctx context.Context, query transportapi.TrainQuery) (*transportapi.TrainResult, error) {
	f.queries = append(f.queries, query)

	route := query.StartID + "-" + query.EndID
	if f.failing[route] {
		return nil, sources.UpstreamError("fake", errors.New("boom"))
	}
	if query.DisruptionsOnly {
		return &transportapi.TrainResult{AnyDisruptions: f.disrupted[route]}, nil
	}
	if f.noService {
		return &transportapi.TrainResult{NoService: true, AnyDisruptions: true}, nil
	}

	departure := ctdf.NewClockTime(8, 0).AddMinutes(query.DepartureTimeOffset + 2)
	leg := ctdf.Leg{
		Mode:             ctdf.TransportModeTrain,
		Line:             "Southeastern",
		Duration:         13,
		DepartureStation: query.StartID,
		ArrivalStation:   query.EndID,
		Status:           "on time",
	}
	leg.Depart(departure)

	return &transportapi.TrainResult{Legs: []ctdf.Leg{leg}}, nil
}

type fakeTubes struct {
	disrupted bool
	err       error
}

func (f *fakeTubes) TubeStatus(ctx context.Context, line string) (*ctdf.Leg, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &ctdf.Leg{Mode: ctdf.TransportModeTube, Line: "Jubilee", Disruptions: f.disrupted}, nil
}

func (f *fakeTubes) NextTube(ctx context.Context, line string, startID string, endID string) (*ctdf.Leg, error) {
	if f.err != nil {
		return nil, f.err
	}

	return &ctdf.Leg{
		Mode:             ctdf.TransportModeTube,
		Line:             "Jubilee",
		Duration:         9,
		DepartureStation: "North Greenwich",
		ArrivalStation:   "London Bridge",
	}, nil
}

func newTestService(t *testing.T, trains *fakeTrains, tubes *fakeTubes) *Service {
	routes, err := ParseRouteTable(defaultRoutes)
	require.NoError(t, err)

	service := NewService(routes, trains, tubes)
	service.Now = func() time.Time {
		return time.Date(2026, time.October, 19, 8, 0, 0, 0, time.Local)
	}

	return service
}

func assertChained(t *testing.T, legs []ctdf.Leg) {
	for i := 1; i < len(legs); i++ {
		require.NotNil(t, legs[i].DepartureTime)
		require.NotNil(t, legs[i-1].ArrivalTime)
		assert.Equal(t, *legs[i-1].ArrivalTime, *legs[i].DepartureTime, "leg %d departs when leg %d arrives", i, i-1)
		assert.Equal(t, legs[i].DepartureTime.AddMinutes(legs[i].Duration), *legs[i].ArrivalTime)
	}
}

func modes(legs []ctdf.Leg) []ctdf.TransportMode {
	var result []ctdf.TransportMode
	for _, leg := range legs {
		result = append(result, leg.Mode)
	}

	return result
}

func TestGetCommuteHomeNoDisruption(t *testing.T) {
	trains := &fakeTrains{}
	service := newTestService(t, trains, &fakeTubes{})

	journeys, err := service.GetCommute(context.Background(), homeLat, homeLon)
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	legs := journeys[0].Legs
	assert.Equal(t, []ctdf.TransportMode{ctdf.TransportModeTrain, ctdf.TransportModeWalk}, modes(legs))
	assertChained(t, legs)

	assert.Equal(t, ctdf.NewClockTime(8, 7), *legs[0].DepartureTime)
	assert.Equal(t, ctdf.WalkingLine, legs[1].Line)
	assert.Equal(t, 25, legs[1].Duration)
	assert.Equal(t, "WeWork", legs[1].ArrivalStation)

	last := trains.queries[len(trains.queries)-1]
	assert.Equal(t, "CTN", last.StartID)
	assert.Equal(t, 5, last.DepartureTimeOffset)
}

func TestGetCommuteHomeFallback(t *testing.T) {
	trains := &fakeTrains{disrupted: map[string]bool{"CTN-LBG": true}}
	service := newTestService(t, trains, &fakeTubes{})

	journeys, err := service.GetCommute(context.Background(), homeLat, homeLon)
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	legs := journeys[0].Legs
	assert.Equal(t, []ctdf.TransportMode{
		ctdf.TransportModeBus,
		ctdf.TransportModeWalk,
		ctdf.TransportModeTube,
		ctdf.TransportModeWalk,
	}, modes(legs))
	assertChained(t, legs)

	assert.Equal(t, ctdf.NewClockTime(8, 10), *legs[0].DepartureTime)
	assert.Equal(t, ctdf.NewClockTime(8, 40), *legs[0].ArrivalTime)
	assert.Equal(t, "486", legs[0].Line)
	assert.Equal(t, 9, legs[2].Duration)
	assert.Equal(t, ctdf.NewClockTime(9, 24), *legs[3].ArrivalTime)
}

func TestGetCommuteBothRoutesDisrupted(t *testing.T) {
	trains := &fakeTrains{disrupted: map[string]bool{"CTN-LBG": true}}
	service := newTestService(t, trains, &fakeTubes{disrupted: true})

	_, err := service.GetCommute(context.Background(), homeLat, homeLon)

	var unroutable *UnroutableError
	require.ErrorAs(t, err, &unroutable)
	assert.Equal(t, RouteUnavailable, unroutable.Kind)
	assert.Equal(t, "There are disruptions on both the trains and Jubilee line", unroutable.Reason)
}

func TestGetCommuteDisruptionCheckFailureUsesFallback(t *testing.T) {
	trains := &fakeTrains{failing: map[string]bool{"CTN-LBG": true}}
	service := newTestService(t, trains, &fakeTubes{})

	journeys, err := service.GetCommute(context.Background(), homeLat, homeLon)
	require.NoError(t, err)
	assert.Equal(t, ctdf.TransportModeBus, journeys[0].Legs[0].Mode)
}

func TestGetCommuteNoTrains(t *testing.T) {
	service := newTestService(t, &fakeTrains{noService: true}, &fakeTubes{})

	_, err := service.GetCommute(context.Background(), homeLat, homeLon)

	var unroutable *UnroutableError
	require.ErrorAs(t, err, &unroutable)
	assert.Equal(t, UpstreamFailure, unroutable.Kind)
	assert.Equal(t, "Error occurred working out commute", unroutable.Reason)
	assert.ErrorIs(t, err, sources.ErrNoService)
}

func TestGetCommuteWork(t *testing.T) {
	trains := &fakeTrains{}
	service := newTestService(t, trains, &fakeTubes{})

	journeys, err := service.GetCommute(context.Background(), workLat, workLon)
	require.NoError(t, err)
	require.Len(t, journeys, 1)

	legs := journeys[0].Legs
	assert.Equal(t, []ctdf.TransportMode{ctdf.TransportModeWalk, ctdf.TransportModeTrain}, modes(legs))
	assert.Equal(t, ctdf.NewClockTime(8, 5), *legs[0].DepartureTime)
	assert.Equal(t, ctdf.NewClockTime(8, 30), *legs[0].ArrivalTime)

	// The train is looked up from when the walk reaches the station.
	last := trains.queries[len(trains.queries)-1]
	assert.Equal(t, "LBG", last.StartID)
	assert.Equal(t, "CTN", last.EndID)
	assert.Equal(t, 30, last.DepartureTimeOffset)
}

func TestGetCommuteWorkFallback(t *testing.T) {
	trains := &fakeTrains{disrupted: map[string]bool{"LBG-CTN": true}}
	service := newTestService(t, trains, &fakeTubes{})

	journeys, err := service.GetCommute(context.Background(), workLat, workLon)
	require.NoError(t, err)

	legs := journeys[0].Legs
	assert.Equal(t, []ctdf.TransportMode{ctdf.TransportModeWalk, ctdf.TransportModeTube, ctdf.TransportModeBus}, modes(legs))

	// The bus leaves ten minutes after the tube arrives.
	assert.Equal(t, legs[1].ArrivalTime.AddMinutes(10), *legs[2].DepartureTime)
	assert.Equal(t, "Home", legs[2].ArrivalStation)
}

func TestGetCommuteOutsideGeofences(t *testing.T) {
	service := newTestService(t, &fakeTrains{}, &fakeTubes{})

	_, err := service.GetCommute(context.Background(), "53.4808", "-2.2426")

	var unroutable *UnroutableError
	require.ErrorAs(t, err, &unroutable)
	assert.Equal(t, LocationUnresolvable, unroutable.Kind)
	assert.Equal(t, "Unable to calculate commute due to starting location", unroutable.Reason)
}

func TestGetCommuteInvalidCoordinates(t *testing.T) {
	tests := []struct {
		name string
		lat  string
		long string
	}{
		{name: "words", lat: "north", long: homeLon},
		{name: "nan", lat: "NaN", long: "NaN"},
		{name: "infinite latitude", lat: "Inf", long: homeLon},
		{name: "infinite longitude", lat: homeLat, long: "-Infinity"},
		{name: "hex float", lat: "0x1p-2", long: homeLon},
		{name: "latitude out of range", lat: "91", long: homeLon},
		{name: "longitude out of range", lat: homeLat, long: "-180.5"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			trains := &fakeTrains{}
			service := newTestService(t, trains, &fakeTubes{})

			_, err := service.GetCommute(context.Background(), test.lat, test.long)
			assert.ErrorIs(t, err, sources.ErrInvalidParameter)
			assert.True(t, sources.IsParameterError(err))
		})
	}
}

func TestGetCommuteStatus(t *testing.T) {
	tests := []struct {
		name     string
		trains   *fakeTrains
		expected bool
	}{
		{name: "clear", trains: &fakeTrains{}, expected: false},
		{name: "to work disrupted", trains: &fakeTrains{disrupted: map[string]bool{"CTN-LBG": true}}, expected: true},
		{name: "to home disrupted", trains: &fakeTrains{disrupted: map[string]bool{"LBG-CTN": true}}, expected: true},
		{name: "check failed", trains: &fakeTrains{failing: map[string]bool{"LBG-CTN": true}}, expected: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			service := newTestService(t, test.trains, &fakeTubes{})

			status, err := service.GetCommuteStatus(context.Background())
			require.NoError(t, err)
			assert.Equal(t, test.expected, status.AnyDisruptions)
			assert.Len(t, test.trains.queries, 2)
		})
	}
}
