package tfl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
	"golang.org/x/exp/slices"
)

const NotAvailable = "N/A"

type ArrivalPrediction struct {
	ID       string `json:"id"`
	NaptanID string `json:"naptanId"`

	LineID   string `json:"lineId"`
	LineName string `json:"lineName"`

	DestinationName string `json:"destinationName"`
	TimeToStation   int    `json:"timeToStation"`
}

type BusArrivals struct {
	Mode        ctdf.TransportMode `json:"mode"`
	Line        string             `json:"line"`
	Destination string             `json:"destination"`
	FirstTime   string             `json:"firstTime"`
	SecondTime  string             `json:"secondTime"`
	Disruptions bool               `json:"disruptions"`
}

// NextBus returns the next two arrivals of route at the given stop point along
// with the current disruption state of the route.
func (c *Client) NextBus(ctx context.Context, route string, stopPoint string) (*BusArrivals, error) {
	switch {
	case strings.TrimSpace(route) == "":
		return nil, sources.MissingParameter("route")
	case strings.TrimSpace(stopPoint) == "":
		return nil, sources.MissingParameter("stopPoint")
	}

	status, err := c.BusStatus(ctx, route)
	if err != nil {
		return nil, err
	}

	requestURL := c.requestURL(
		fmt.Sprintf("StopPoint/%s/Arrivals", url.PathEscape(stopPoint)),
		url.Values{"mode": []string{"bus"}, "line": []string{route}},
	)

	var predictions []ArrivalPrediction
	if err := sources.GetJSON(ctx, c.httpClient(), providerName, requestURL, &predictions); err != nil {
		return nil, err
	}

	arrivals := EarliestArrivals(predictions, route, 2)
	if len(arrivals) == 0 {
		return nil, fmt.Errorf("%w: no arrivals for bus %s at %s", sources.ErrNoService, route, stopPoint)
	}

	busArrivals := &BusArrivals{
		Mode:        ctdf.TransportModeBus,
		Line:        arrivals[0].LineName,
		Destination: arrivals[0].DestinationName,
		FirstTime:   MinutesToStop(arrivals[0].TimeToStation),
		SecondTime:  NotAvailable,
		Disruptions: status.Disruptions,
	}
	if len(arrivals) > 1 {
		busArrivals.SecondTime = MinutesToStop(arrivals[1].TimeToStation)
	}

	return busArrivals, nil
}

// EarliestArrivals keeps the predictions for route, ordered by how soon they
// reach the stop, and returns at most limit of them.
func EarliestArrivals(predictions []ArrivalPrediction, route string, limit int) []ArrivalPrediction {
	var arrivals []ArrivalPrediction
	for _, prediction := range predictions {
		if strings.EqualFold(prediction.LineID, route) {
			arrivals = append(arrivals, prediction)
		}
	}

	slices.SortStableFunc(arrivals, func(a, b ArrivalPrediction) int {
		return a.TimeToStation - b.TimeToStation
	})

	if len(arrivals) > limit {
		arrivals = arrivals[:limit]
	}

	return arrivals
}

func MinutesToStop(seconds int) string {
	minutes := seconds / 60
	if minutes <= 0 {
		return "Due"
	}

	return fmt.Sprintf("%d min", minutes)
}
