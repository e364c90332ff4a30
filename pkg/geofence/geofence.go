package geofence

import (
	"errors"
	"fmt"
	"math"

	"github.com/paulcager/osgridref"
)

const earthRadiusMeters = 6371000

const DefaultRadiusMeters = 500

// Geofence is a circular area around a fixed place. The centre can be given
// either as latitude/longitude or as an Ordnance Survey easting/northing.
type Geofence struct {
	Name string `yaml:"name" validate:"required"`

	Latitude  float64 `yaml:"latitude" validate:"omitempty,latitude"`
	Longitude float64 `yaml:"longitude" validate:"omitempty,longitude"`

	Easting  string `yaml:"easting"`
	Northing string `yaml:"northing"`

	RadiusMeters float64 `yaml:"radius" validate:"gte=0"`
}

// UpdateCoordinates fills in latitude and longitude from the grid reference
// when only the grid reference is set.
func (g *Geofence) UpdateCoordinates() error {
	if g.Easting != "" && g.Northing != "" && (g.Latitude == 0 || g.Longitude == 0) {
		gridRef, err := osgridref.ParseOsGridRef(fmt.Sprintf("%s,%s", g.Easting, g.Northing))
		if err != nil {
			return fmt.Errorf("geofence %s: %w", g.Name, err)
		}

		g.Latitude, g.Longitude = gridRef.ToLatLon()
	}

	if g.Latitude == 0 && g.Longitude == 0 {
		return errors.New("geofence " + g.Name + " has no centre")
	}

	if g.RadiusMeters == 0 {
		g.RadiusMeters = DefaultRadiusMeters
	}

	return nil
}

func (g *Geofence) Contains(latitude float64, longitude float64) bool {
	return Distance(g.Latitude, g.Longitude, latitude, longitude) <= g.RadiusMeters
}

// Distance is the great-circle distance between two points in metres.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	deltaPhi := (lat2 - lat1) * math.Pi / 180
	deltaLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaPhi/2)*math.Sin(deltaPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(deltaLambda/2)*math.Sin(deltaLambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}
