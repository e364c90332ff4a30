package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/commute/pkg/commute"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/sources/tfl"
	"github.com/travigo/commute/pkg/sources/transportapi"
)

type fakeCommute struct {
	status   *ctdf.CommuteStatus
	journeys []ctdf.Journey
	err      error
}

func (f *fakeCommute) GetCommuteStatus(ctx context.Context) (*ctdf.CommuteStatus, error) {
	return f.status, f.err
}

func (f *fakeCommute) GetCommute(ctx context.Context, lat string, long string) ([]ctdf.Journey, error) {
	return f.journeys, f.err
}

type fakeBuses struct {
	arrivals *tfl.BusArrivals
	err      error

	stopPoint string
}

func (f *fakeBuses) BusStatus(ctx context.Context, route string) (*ctdf.Leg, error) {
	return &ctdf.Leg{Mode: ctdf.TransportModeBus, Line: route}, nil
}

func (f *fakeBuses) NextBus(ctx context.Context, route string, stopPoint string) (*tfl.BusArrivals, error) {
	f.stopPoint = stopPoint
	return f.arrivals, f.err
}

type fakeTubes struct {
	err error
}

func (f *fakeTubes) TubeStatus(ctx context.Context, line string) (*ctdf.Leg, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ctdf.Leg{Mode: ctdf.TransportModeTube, Line: line, Status: "Good Service"}, nil
}

func (f *fakeTubes) NextTube(ctx context.Context, line string, startID string, endID string) (*ctdf.Leg, error) {
	return nil, f.err
}

type fakeTrains struct {
	query  transportapi.TrainQuery
	result *transportapi.TrainResult
	err    error
}

func (f *fakeTrains) NextTrain(ctx context.Context, query transportapi.TrainQuery) (*transportapi.TrainResult, error) {
	f.query = query
	return f.result, f.err
}

type fakeRegistry struct {
	targets []ctdf.UserPushNotificationTarget
}

func (f *fakeRegistry) RegisterPushTarget(ctx context.Context, target ctdf.UserPushNotificationTarget) error {
	f.targets = append(f.targets, target)
	return nil
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func TestCommuteRoutes(t *testing.T) {
	departure := ctdf.NewClockTime(8, 10)

	service := &fakeCommute{
		status: &ctdf.CommuteStatus{AnyDisruptions: true},
		journeys: []ctdf.Journey{
			{
				Legs: []ctdf.Leg{
					{
						Mode:              ctdf.TransportModeTrain,
						Line:              "Southeastern",
						DepartureTime:     &departure,
						DeparturePlatform: "3",
						FinalDestination:  "London Cannon Street",
					},
					{
						Mode:              ctdf.TransportModeTube,
						Line:              "Jubilee",
						Disruptions:       true,
						DisruptionDetails: []string{"Minor delays"},
					},
				},
			},
		},
	}

	app := fiber.New()
	CommuteRouter(app, service)

	status, body := doRequest(t, app, "GET", "/getcommutestatus", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["anyDisruptions"])

	status, body = doRequest(t, app, "GET", "/commute/51.4866/0.0327", "")
	assert.Equal(t, 200, status)
	leg := body["journeys"].([]any)[0].(map[string]any)["legs"].([]any)[0].(map[string]any)
	assert.Equal(t, "train", leg["mode"])
	assert.Equal(t, "08:10", leg["departureTime"])
	assert.Equal(t, "3", leg["departurePlatform"])
	assert.Equal(t, "London Cannon Street", leg["finalDestination"])
	assert.NotContains(t, leg, "disruptionDetails")

	status, body = doRequest(t, app, "GET", "/commute/51.4866/0.0327?detail=true", "")
	assert.Equal(t, 200, status)
	leg = body["journeys"].([]any)[0].(map[string]any)["legs"].([]any)[1].(map[string]any)
	assert.Equal(t, []any{"Minor delays"}, leg["disruptionDetails"])
	assert.Equal(t, float64(0), leg["duration"])
}

func TestCommuteUnroutable(t *testing.T) {
	service := &fakeCommute{
		err: &commute.UnroutableError{
			Kind:   commute.LocationUnresolvable,
			Reason: "Unable to calculate commute due to starting location",
		},
	}

	app := fiber.New()
	CommuteRouter(app, service)

	status, body := doRequest(t, app, "GET", "/commute/0/0", "")
	assert.Equal(t, 200, status)

	journeys := body["journeys"].([]any)
	require.Len(t, journeys, 1)

	leg := journeys[0].(map[string]any)["legs"].([]any)[0].(map[string]any)
	assert.Equal(t, "error", leg["mode"])
	assert.Equal(t, true, leg["disruptions"])
	assert.Equal(t, "Unable to calculate commute due to starting location", leg["status"])
}

func TestBusesRoutes(t *testing.T) {
	routeTable, err := commute.LoadRouteTable()
	require.NoError(t, err)

	buses := &fakeBuses{
		arrivals: &tfl.BusArrivals{
			Mode:       ctdf.TransportModeBus,
			Line:       "486",
			FirstTime:  "2 min",
			SecondTime: "8 min",
		},
	}

	app := fiber.New()
	BusesRouter(app, buses, routeTable)

	status, body := doRequest(t, app, "GET", "/486/next", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "2 min", body["firstTime"])
	assert.Equal(t, "490001058H", buses.stopPoint)

	status, _ = doRequest(t, app, "GET", "/486/next?atHome=false", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "490010374B", buses.stopPoint)

	status, body = doRequest(t, app, "GET", "/999/next", "")
	assert.Equal(t, 400, status)
	assert.Contains(t, body["error"], "Bus route 999 is not currently supported")

	buses.arrivals = nil
	buses.err = sources.ErrNoService
	status, body = doRequest(t, app, "GET", "/380/next", "")
	assert.Equal(t, 200, status)
	assert.Empty(t, body)

	status, body = doRequest(t, app, "GET", "/486", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "486", body["line"])
}

func TestTubesRoutes(t *testing.T) {
	tubes := &fakeTubes{}

	app := fiber.New()
	TubesRouter(app, tubes)

	status, body := doRequest(t, app, "GET", "/jubilee/status", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "Good Service", body["status"])

	tubes.err = sources.UpstreamError("Transport for London API", assert.AnError)
	status, _ = doRequest(t, app, "GET", "/jubilee/status", "")
	assert.Equal(t, 500, status)

	tubes.err = sources.ErrNoService
	status, _ = doRequest(t, app, "GET", "/jubilee/next/940GZZLUNGW/to/940GZZLULNB", "")
	assert.Equal(t, 404, status)
}

func TestTrainsRoutes(t *testing.T) {
	trains := &fakeTrains{
		result: &transportapi.TrainResult{
			AnyDisruptions: true,
			Legs: []ctdf.Leg{
				{Mode: ctdf.TransportModeTrain, Status: "cancelled", Disruptions: true},
			},
		},
	}

	app := fiber.New()
	TrainsRouter(app, trains)

	status, body := doRequest(t, app, "GET", "/ctn/to/lbg?disruptionsOnly=true&departureTimeOffSet=PT30M", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["anyDisruptions"])
	assert.Equal(t, "ctn", trains.query.StartID)
	assert.Equal(t, 30, trains.query.DepartureTimeOffset)
	assert.True(t, trains.query.DisruptionsOnly)

	req := httptest.NewRequest("GET", "/ctn/to/lbg?nextTrainOnly=true", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var legs []ctdf.Leg
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&legs))
	require.Len(t, legs, 1)
	assert.Equal(t, "cancelled", legs[0].Status)
	assert.True(t, trains.query.NextTrainOnly)

	status, _ = doRequest(t, app, "GET", "/ctn/to/lbg?departureTimeOffSet=soon", "")
	assert.Equal(t, 400, status)

	trains.err = sources.MissingParameter("startID")
	status, _ = doRequest(t, app, "GET", "/ctn/to/lbg", "")
	assert.Equal(t, 400, status)
}

func TestAccountRoutes(t *testing.T) {
	registry := &fakeRegistry{}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("account_userid", "default")
		return c.Next()
	})
	AccountRouter(app, registry)

	status, body := doRequest(t, app, "POST", "/notificationtoken", `{"token":"device-token"}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["success"])
	require.Len(t, registry.targets, 1)
	assert.Equal(t, "default", registry.targets[0].UserID)
	assert.Equal(t, "device-token", registry.targets[0].PushNotificationToken)

	status, _ = doRequest(t, app, "POST", "/notificationtoken", `{}`)
	assert.Equal(t, 400, status)
}

func TestPing(t *testing.T) {
	app := fiber.New()
	app.Get("/ping", Ping)

	status, body := doRequest(t, app, "GET", "/ping", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "pong", body["reply"])
}
