package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/USRSE/usrse-go/internal/endpoints"
	"github.com/USRSE/usrse-go/internal/result"
)

// DefaultBaseURL points at the US-RSE site API.
const DefaultBaseURL = "https://us-rse.org/api"

// Client fetches US-RSE endpoints. One request at a time, no retries.
type Client struct {
	baseURL  string
	registry map[string]endpoints.Endpoint
	http     *http.Client
	logger   *slog.Logger
}

// New creates a Client against the given base URL (DefaultBaseURL when
// empty) using the provided endpoint registry.
func New(baseURL string, registry map[string]endpoints.Endpoint, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		registry: registry,
		http:     &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get fetches the named endpoint and returns its normalized result.
// Unknown names and non-200 responses are errors; an empty or null body
// yields a Result with zero records.
func (c *Client) Get(ctx context.Context, name string) (*result.Result, error) {
	ep, ok := c.registry[name]
	if !ok {
		return nil, fmt.Errorf("%q is not a known endpoint, endpoints include:\n%s",
			name, strings.Join(c.names(), "\n"))
	}

	url := ep.URL(c.baseURL)
	c.logger.Info("GET", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("retrieving %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("issue retrieving %s (%s):\n%s", url, resp.Status, string(body))
	}

	records, err := parseRecords(body)
	if err != nil {
		return nil, fmt.Errorf("parsing response from %s: %w", url, err)
	}

	return result.New(records, ep, c.logger), nil
}

func (c *Client) names() []string {
	names := make([]string, 0, len(c.registry))
	for name := range c.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseRecords decodes a JSON array of objects into string-valued
// records. Non-string scalars are stringified, nulls become "".
func parseRecords(body []byte) ([]result.Record, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var raw []map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	records := make([]result.Record, len(raw))
	for i, entry := range raw {
		rec := make(result.Record, len(entry))
		for k, v := range entry {
			switch val := v.(type) {
			case nil:
				rec[k] = ""
			case string:
				rec[k] = val
			case float64:
				rec[k] = formatNumber(val)
			default:
				rec[k] = fmt.Sprint(val)
			}
		}
		records[i] = rec
	}
	return records, nil
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
