package tfl

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/travigo/commute/pkg/cachedresults"
	"github.com/travigo/commute/pkg/sources"
)

const DefaultBaseURL = "https://api.tfl.gov.uk"

const providerName = "Transport for London API"

type Client struct {
	AppKey  string
	BaseURL string

	HTTPClient *http.Client

	// Timetables hold the interval between two stations and barely change so
	// they are worth caching between requests.
	TimetableCache *cachedresults.Cache
}

func NewClient(appKey string) *Client {
	return &Client{
		AppKey:     appKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: sources.NewHTTPClient(),
	}
}

func (c *Client) requestURL(path string, query url.Values) string {
	if query == nil {
		query = url.Values{}
	}
	if c.AppKey != "" {
		query.Set("app_key", c.AppKey)
	}

	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(baseURL, "/"), path, query.Encode())
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}

	return c.HTTPClient
}
