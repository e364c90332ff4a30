package commute

import (
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/travigo/commute/pkg/cachedresults"
	"github.com/travigo/commute/pkg/sources/tfl"
	"github.com/travigo/commute/pkg/sources/transportapi"
	"github.com/travigo/commute/pkg/util"
)

const timetableCacheExpiration = 24 * time.Hour

// Environment holds the upstream clients and the commute service built from
// the process configuration.
type Environment struct {
	Routes *RouteTable

	TfL          *tfl.Client
	TransportAPI *transportapi.Client

	Service *Service
}

// NewEnvironment builds the commute service from environment variables. Tube
// timetables are cached in redis when a client is given.
func NewEnvironment(redisClient *redis.Client) (*Environment, error) {
	routes, err := LoadRouteTable()
	if err != nil {
		return nil, err
	}

	env := util.GetEnvironmentVariables()

	tflClient := tfl.NewClient(env["COMMUTE_TFL_API_KEY"])
	if redisClient != nil {
		tflClient.TimetableCache = cachedresults.New(redisClient, "tfl-timetable", timetableCacheExpiration)
	}

	transportAPIClient := transportapi.NewClient(env["COMMUTE_TRANSPORTAPI_APP_ID"], env["COMMUTE_TRANSPORTAPI_APP_KEY"])

	return &Environment{
		Routes:       routes,
		TfL:          tflClient,
		TransportAPI: transportAPIClient,
		Service:      NewService(routes, transportAPIClient, tflClient),
	}, nil
}
