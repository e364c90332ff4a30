package transportapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/travigo/commute/pkg/sources"
)

const DefaultBaseURL = "https://transportapi.com/v3"

const providerName = "TransportAPI"

type Client struct {
	AppID   string
	AppKey  string
	BaseURL string

	HTTPClient *http.Client

	Now func() time.Time
}

func NewClient(appID string, appKey string) *Client {
	return &Client{
		AppID:      appID,
		AppKey:     appKey,
		BaseURL:    DefaultBaseURL,
		HTTPClient: sources.NewHTTPClient(),
	}
}

func (c *Client) requestURL(path string, query url.Values) string {
	baseURL := c.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return c.authenticate(fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), path), query)
}

// authenticate adds the app credentials to a request URL unless it already
// carries them, which service timetable links handed out by the API usually do.
func (c *Client) authenticate(requestURL string, query url.Values) string {
	parsed, err := url.Parse(requestURL)
	if err != nil {
		return requestURL
	}

	values := parsed.Query()
	for key, value := range query {
		values[key] = value
	}
	if values.Get("app_id") == "" && c.AppID != "" {
		values.Set("app_id", c.AppID)
	}
	if values.Get("app_key") == "" && c.AppKey != "" {
		values.Set("app_key", c.AppKey)
	}
	parsed.RawQuery = values.Encode()

	return parsed.String()
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return http.DefaultClient
	}

	return c.HTTPClient
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}

	return c.Now()
}
