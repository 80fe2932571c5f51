// Package packagist fetches package statistics from the Packagist registry.
package packagist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grazulex/packagist-stats/internal/logger"
	"github.com/grazulex/packagist-stats/internal/models"
)

// DefaultBaseURL is the public Packagist host.
const DefaultBaseURL = "https://packagist.org"

const defaultTimeout = 30 * time.Second

var (
	// ErrUnexpectedStatus is returned when the registry answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected status from registry")
	// ErrMissingDownloads is returned when the body has no package.downloads counters.
	ErrMissingDownloads = errors.New("response has no package.downloads counters")
)

// StatusError describes a non-2xx registry response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request to %s failed (status %d)", e.URL, e.StatusCode)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus.
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// packageResponse is the subset of the package endpoint we read. Pointers
// distinguish a missing counter from a zero one.
type packageResponse struct {
	Package *struct {
		Name      string `json:"name"`
		Downloads *struct {
			Daily   *int64 `json:"daily"`
			Monthly *int64 `json:"monthly"`
			Total   *int64 `json:"total"`
		} `json:"downloads"`
	} `json:"package"`
}

// Client talks to a Packagist-compatible registry.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for baseURL. A nil httpClient gets a default
// client with a 30s timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// PackageURL returns the statistics endpoint for vendor/pkg.
func (c *Client) PackageURL(vendor, pkg string) string {
	return fmt.Sprintf("%s/packages/%s/%s.json", c.baseURL, url.PathEscape(vendor), url.PathEscape(pkg))
}

// FetchDownloads issues a single GET for vendor/pkg and returns its counters.
// There is no retry.
func (c *Client) FetchDownloads(ctx context.Context, vendor, pkg string) (models.Counters, error) {
	endpoint := c.PackageURL(vendor, pkg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return models.Counters{}, fmt.Errorf("failed to create stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Counters{}, fmt.Errorf("stats request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Counters{}, fmt.Errorf("failed to read stats response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Counters{}, &StatusError{
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	logger.Debug("stats response received", "url", endpoint, "bytes", len(body))

	return ParseDownloads(body)
}

// ParseDownloads extracts package.downloads.{daily,monthly,total} from body.
func ParseDownloads(body []byte) (models.Counters, error) {
	var pr packageResponse
	if err := json.Unmarshal(body, &pr); err != nil {
		return models.Counters{}, fmt.Errorf("failed to parse stats response: %w", err)
	}

	if pr.Package == nil || pr.Package.Downloads == nil {
		return models.Counters{}, ErrMissingDownloads
	}
	d := pr.Package.Downloads
	if d.Daily == nil || d.Monthly == nil || d.Total == nil {
		return models.Counters{}, ErrMissingDownloads
	}

	return models.Counters{
		Daily:   *d.Daily,
		Monthly: *d.Monthly,
		Total:   *d.Total,
	}, nil
}
