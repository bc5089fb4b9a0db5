// Package httpx provides the shared outbound HTTP client used by the signal
// collectors.
//
// All collectors go through one pooled transport so connections are reused
// across the many small API calls a run makes. Callers of Get MUST close the
// response body.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// userAgent identifies sonar to upstream providers.
const userAgent = "sonar/0.1 (+https://github.com/hollowaylabs/sonar)"

var (
	sharedTransport *http.Transport
	transportOnce   sync.Once
)

// transport returns the shared transport with connection pooling settings.
func transport() *http.Transport {
	transportOnce.Do(func() {
		sharedTransport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		}
	})
	return sharedTransport
}

// Client is a thin wrapper over http.Client with JSON helpers.
type Client struct {
	http *http.Client
}

// NewClient creates a Client with the given per-request timeout on the
// shared pooled transport.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Transport: transport(),
			Timeout:   timeout,
		},
	}
}

// Get issues a GET with the shared User-Agent and returns the response.
// Non-200 statuses are returned as errors with the body drained and closed.
// On success the caller owns the body and must close it.
func (c *Client) Get(ctx context.Context, rawurl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}
	return resp, nil
}

// GetJSON issues a GET and decodes the JSON response body into v.
// params and header may be nil.
func (c *Client) GetJSON(ctx context.Context, rawurl string, params url.Values, header http.Header, v any) error {
	u, err := url.Parse(rawurl)
	if err != nil {
		return fmt.Errorf("parse url: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Add(k, val)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// PostJSON issues a POST with a JSON body and decodes the JSON response into v.
func (c *Client) PostJSON(ctx context.Context, rawurl string, body any, v any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawurl, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
