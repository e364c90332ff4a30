package tfl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
)

type timetableResponse struct {
	LineName  string `json:"lineName"`
	Timetable struct {
		Routes []struct {
			StationIntervals []struct {
				Intervals []struct {
					StopID        string  `json:"stopId"`
					TimeToArrival float64 `json:"timeToArrival"`
				} `json:"intervals"`
			} `json:"stationIntervals"`
		} `json:"routes"`
	} `json:"timetable"`
	Stops []struct {
		StationID string `json:"stationId"`
		ID        string `json:"id"`
		Name      string `json:"name"`
	} `json:"stops"`
}

func (t *timetableResponse) stationName(id string) string {
	for _, stop := range t.Stops {
		if stop.StationID == id || stop.ID == id {
			return strings.TrimSuffix(stop.Name, " Underground Station")
		}
	}

	return ""
}

// NextTube returns a tube leg between two stations with its scheduled running
// time and the current disruption state of the line. Departure and arrival
// times are left for the caller to chain.
func (c *Client) NextTube(ctx context.Context, line string, startID string, endID string) (*ctdf.Leg, error) {
	switch {
	case strings.TrimSpace(line) == "":
		return nil, sources.MissingParameter("line")
	case strings.TrimSpace(startID) == "":
		return nil, sources.MissingParameter("startID")
	case strings.TrimSpace(endID) == "":
		return nil, sources.MissingParameter("endID")
	}

	timetable, err := c.timetable(ctx, line, startID, endID)
	if err != nil {
		return nil, err
	}

	if len(timetable.Timetable.Routes) == 0 || len(timetable.Timetable.Routes[0].StationIntervals) == 0 {
		return nil, fmt.Errorf("%w: no %s timetable from %s to %s", sources.ErrNoService, line, startID, endID)
	}

	duration := 0
	for _, interval := range timetable.Timetable.Routes[0].StationIntervals[0].Intervals {
		if interval.StopID == endID {
			duration = int(interval.TimeToArrival)
			break
		}
	}

	leg := &ctdf.Leg{
		Mode:             ctdf.TransportModeTube,
		Line:             line,
		Duration:         duration,
		DepartureStation: timetable.stationName(startID),
		ArrivalStation:   timetable.stationName(endID),
	}
	if timetable.LineName != "" {
		leg.Line = timetable.LineName
	}

	status, err := c.LineStatus(ctx, ctdf.TransportModeTube, line)
	if err != nil {
		return nil, err
	}
	leg.Disruptions = status.Disruptions
	leg.DisruptionDetails = status.DisruptionDetails

	return leg, nil
}

func (c *Client) timetable(ctx context.Context, line string, startID string, endID string) (*timetableResponse, error) {
	cacheKey := fmt.Sprintf("%s:%s:%s", line, startID, endID)

	var timetable timetableResponse
	if c.TimetableCache.GetJSON(ctx, cacheKey, &timetable) {
		return &timetable, nil
	}

	requestURL := c.requestURL(
		fmt.Sprintf("Line/%s/Timetable/%s/to/%s", url.PathEscape(line), url.PathEscape(startID), url.PathEscape(endID)),
		nil,
	)
	if err := sources.GetJSON(ctx, c.httpClient(), providerName, requestURL, &timetable); err != nil {
		return nil, err
	}

	c.TimetableCache.SetJSON(ctx, cacheKey, timetable)

	return &timetable, nil
}
