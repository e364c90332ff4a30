package commute

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/geofence"
	"github.com/travigo/commute/pkg/sources"
	"github.com/travigo/commute/pkg/util"
	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutes []byte

type RouteTable struct {
	Geofences struct {
		Home geofence.Geofence `yaml:"home" validate:"required"`
		Work geofence.Geofence `yaml:"work" validate:"required"`
	} `yaml:"geofences"`

	ToWork Direction `yaml:"toWork" validate:"required"`
	ToHome Direction `yaml:"toHome" validate:"required"`

	Buses map[string]BusStops `yaml:"buses" validate:"dive"`
}

// Direction is the primary train route for one way of the commute and the
// route to fall back to when the trains are disrupted.
type Direction struct {
	Primary  []LegTemplate `yaml:"primary" validate:"required,min=1,dive"`
	Fallback struct {
		Line string        `yaml:"line" validate:"required"`
		Legs []LegTemplate `yaml:"legs" validate:"required,min=1,dive"`
	} `yaml:"fallback"`
}

// Train returns the train leg of the primary route.
func (d *Direction) Train() *LegTemplate {
	for i := range d.Primary {
		if d.Primary[i].Mode == ctdf.TransportModeTrain {
			return &d.Primary[i]
		}
	}

	return nil
}

// LegTemplate describes a leg before it has been timed. Walk and bus legs are
// fixed, tube and train legs are looked up upstream between From and To.
type LegTemplate struct {
	Mode     ctdf.TransportMode `yaml:"mode" validate:"required,oneof=walk bus tube train"`
	Line     string             `yaml:"line" validate:"required_if=Mode tube"`
	Duration int                `yaml:"duration" validate:"gte=0"`
	Lead     string             `yaml:"lead"`

	From string `yaml:"from" validate:"required_if=Mode tube,required_if=Mode train"`
	To   string `yaml:"to" validate:"required_if=Mode tube,required_if=Mode train"`

	DepartureStation string `yaml:"departureStation"`
	ArrivalStation   string `yaml:"arrivalStation"`

	LeadMinutes int `yaml:"-"`
}

type BusStops struct {
	StopPoint    string `yaml:"stopPoint"`
	AtHome       string `yaml:"atHome"`
	AwayFromHome string `yaml:"awayFromHome"`
}

// StopPoint returns the stop to watch for a bus route, which for some routes
// depends on which end of the commute the caller is at.
func (r *RouteTable) StopPoint(route string, atHome bool) (string, error) {
	stops, ok := r.Buses[route]
	if !ok {
		return "", sources.InvalidParameter("Bus route %s is not currently supported", route)
	}

	switch {
	case atHome && stops.AtHome != "":
		return stops.AtHome, nil
	case !atHome && stops.AwayFromHome != "":
		return stops.AwayFromHome, nil
	case stops.StopPoint != "":
		return stops.StopPoint, nil
	}

	return "", sources.InvalidParameter("Bus route %s is not currently supported", route)
}

// LoadRouteTable reads the route table from COMMUTE_ROUTES_FILE, or the built
// in table when it is not set.
func LoadRouteTable() (*RouteTable, error) {
	env := util.GetEnvironmentVariables()

	if path := env["COMMUTE_ROUTES_FILE"]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read route table: %w", err)
		}

		log.Info().Str("path", path).Msg("Loading route table")
		return ParseRouteTable(data)
	}

	return ParseRouteTable(defaultRoutes)
}

func ParseRouteTable(data []byte) (*RouteTable, error) {
	var routes RouteTable
	if err := yaml.Unmarshal(data, &routes); err != nil {
		return nil, fmt.Errorf("parse route table: %w", err)
	}

	if err := validator.New().Struct(&routes); err != nil {
		return nil, fmt.Errorf("invalid route table: %w", err)
	}

	for _, fence := range []*geofence.Geofence{&routes.Geofences.Home, &routes.Geofences.Work} {
		if err := fence.UpdateCoordinates(); err != nil {
			return nil, err
		}
	}

	for name, direction := range map[string]*Direction{"toWork": &routes.ToWork, "toHome": &routes.ToHome} {
		if direction.Train() == nil {
			return nil, fmt.Errorf("invalid route table: %s has no train leg", name)
		}

		for _, legs := range [][]LegTemplate{direction.Primary, direction.Fallback.Legs} {
			for i := range legs {
				lead, err := util.ParseOffset(legs[i].Lead)
				if err != nil {
					return nil, fmt.Errorf("invalid route table: %s: %w", name, err)
				}
				legs[i].LeadMinutes = lead
			}
		}
	}

	return &routes, nil
}
