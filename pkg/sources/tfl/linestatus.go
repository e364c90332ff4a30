package tfl

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/ctdf"
	"github.com/travigo/commute/pkg/sources"
)

type lineStatusResponse struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	ModeName    string           `json:"modeName"`
	Disruptions []lineDisruption `json:"disruptions"`
}

type lineDisruption struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

// LineStatus reports whether a TfL line currently has any disruptions. The
// returned leg only carries the mode, the display name of the line and the
// disruption flag.
func (c *Client) LineStatus(ctx context.Context, mode ctdf.TransportMode, line string) (*ctdf.Leg, error) {
	if strings.TrimSpace(line) == "" {
		return nil, sources.MissingParameter("line")
	}

	requestURL := c.requestURL(
		fmt.Sprintf("Line/%s/Status", url.PathEscape(line)),
		url.Values{"detail": []string{"true"}},
	)

	var statuses []lineStatusResponse
	if err := sources.GetJSON(ctx, c.httpClient(), providerName, requestURL, &statuses); err != nil {
		return nil, err
	}

	leg := &ctdf.Leg{
		Mode: mode,
		Line: line,
	}

	if len(statuses) > 0 {
		if statuses[0].Name != "" {
			leg.Line = statuses[0].Name
		}
		leg.Disruptions = len(statuses[0].Disruptions) > 0

		for _, disruption := range statuses[0].Disruptions {
			if disruption.Description != "" {
				leg.DisruptionDetails = append(leg.DisruptionDetails, disruption.Description)
			}
		}
	}

	log.Debug().
		Str("mode", string(mode)).
		Str("line", leg.Line).
		Bool("disruptions", leg.Disruptions).
		Msg("Retrieved TfL line status")

	return leg, nil
}

func (c *Client) TubeStatus(ctx context.Context, line string) (*ctdf.Leg, error) {
	return c.LineStatus(ctx, ctdf.TransportModeTube, line)
}

func (c *Client) BusStatus(ctx context.Context, route string) (*ctdf.Leg, error) {
	if strings.TrimSpace(route) == "" {
		return nil, sources.MissingParameter("route")
	}

	return c.LineStatus(ctx, ctdf.TransportModeBus, route)
}
