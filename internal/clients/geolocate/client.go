// Package geolocate is the HTTP client for the device location gateway: the
// service that fronts the operator device's geolocation capability. It
// exposes the one-shot position probe the session subsystem gates on, and
// the permission-state query.
package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hdfops/field-console/internal/core/ports"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultRetryMax = 2
	retryWaitMin    = 250 * time.Millisecond
	retryWaitMax    = 2 * time.Second
)

type Client struct {
	http    *http.Client
	baseURL string

	mu     sync.Mutex
	cached *ports.Position
}

var _ ports.LocationProbe = (*Client)(nil)

func NewClient(baseURL string, retryMax int) *Client {
	if retryMax < 0 {
		retryMax = defaultRetryMax
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = retryMax
	retryClient.RetryWaitMin = retryWaitMin
	retryClient.RetryWaitMax = retryWaitMax
	retryClient.HTTPClient.Timeout = defaultTimeout
	retryClient.Logger = nil

	return &Client{
		http:    retryClient.StandardClient(),
		baseURL: baseURL,
	}
}

type positionResponse struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	AccuracyM  float64   `json:"accuracy_m"`
	RecordedAt time.Time `json:"recorded_at"`
}

type permissionResponse struct {
	State string `json:"state"`
}

// CurrentPosition returns the device's current position. A cached fix no
// older than opts.MaximumAge satisfies the probe without a round trip,
// mirroring the geolocation API's staleness tolerance. Errors mean the
// capability is unavailable; the caller decides policy.
func (c *Client) CurrentPosition(ctx context.Context, opts ports.ProbeOptions) (*ports.Position, error) {
	if opts.MaximumAge > 0 {
		c.mu.Lock()
		cached := c.cached
		c.mu.Unlock()
		if cached != nil && time.Since(cached.RecordedAt) <= opts.MaximumAge {
			pos := *cached
			return &pos, nil
		}
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	q := url.Values{}
	q.Set("high_accuracy", strconv.FormatBool(opts.HighAccuracy))

	var resp positionResponse
	if err := c.get(ctx, "/v1/position?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	pos := &ports.Position{
		Latitude:   resp.Latitude,
		Longitude:  resp.Longitude,
		AccuracyM:  resp.AccuracyM,
		RecordedAt: resp.RecordedAt,
	}
	if pos.RecordedAt.IsZero() {
		pos.RecordedAt = time.Now().UTC()
	}

	c.mu.Lock()
	cached := *pos
	c.cached = &cached
	c.mu.Unlock()

	return pos, nil
}

// PermissionState reports whether the operator has granted location access.
func (c *Client) PermissionState(ctx context.Context) (ports.PermissionState, error) {
	var resp permissionResponse
	if err := c.get(ctx, "/v1/permission", &resp); err != nil {
		return "", err
	}

	switch state := ports.PermissionState(resp.State); state {
	case ports.PermissionGranted, ports.PermissionDenied, ports.PermissionPrompt:
		return state, nil
	default:
		return "", fmt.Errorf("geolocate: unknown permission state %q", resp.State)
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("geolocate: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geolocate: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geolocate: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("geolocate: decode response: %w", err)
	}
	return nil
}
