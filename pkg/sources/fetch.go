package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/commute/pkg/util"
)

const DefaultTimeout = 10 * time.Second

// Some upstreams sit behind cloudflare which rejects requests with no user agent.
const userAgent = "curl/7.54.1"

// NewHTTPClient returns the client shared by the upstream sources, honouring
// COMMUTE_UPSTREAM_TIMEOUT.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: util.GetEnvironmentDuration("COMMUTE_UPSTREAM_TIMEOUT", DefaultTimeout),
	}
}

// GetJSON issues a single GET and decodes the JSON body into target. Any
// failure is reported as an upstream error, there is no retry.
func GetJSON(ctx context.Context, client *http.Client, provider string, requestURL string, target any) error {
	body, err := GetBody(ctx, client, provider, requestURL)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, target); err != nil {
		return UpstreamError(provider, fmt.Errorf("decode response: %w", err))
	}

	return nil
}

func GetBody(ctx context.Context, client *http.Client, provider string, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, UpstreamError(provider, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	log.Debug().Str("provider", provider).Str("path", req.URL.Path).Msg("Upstream request")

	resp, err := client.Do(req)
	if err != nil {
		return nil, UpstreamError(provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, UpstreamError(provider, fmt.Errorf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, UpstreamError(provider, fmt.Errorf("read response: %w", err))
	}

	return body, nil
}
