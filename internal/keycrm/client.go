package keycrm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxResponseSize bounds how much of a KeyCRM response body is read
const maxResponseSize = 1 << 20

// ErrRequestFailed is matched by every non-2xx KeyCRM response
var ErrRequestFailed = errors.New("keycrm: request failed")

// APIError carries a non-2xx response for diagnostics
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("keycrm: HTTP %d: %s", e.StatusCode, e.Body)
}

// Is reports APIError as ErrRequestFailed
func (e *APIError) Is(target error) bool {
	return target == ErrRequestFailed
}

// Client talks to the KeyCRM open API
type Client struct {
	config     Config
	sourceID   int64
	httpClient *http.Client
}

// NewHTTPClient returns a pooled client whose transport records a client
// span per call and injects the trace context with the global propagator.
// No timeout is set; calls are bounded by the request context.
func NewHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{
		Transport: otelhttp.NewTransport(transport),
	}
}

// NewClient creates a client for the given configuration.
// A nil httpClient uses NewHTTPClient.
func NewClient(config Config, httpClient *http.Client) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	sourceID, err := config.ParsedSourceID()
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	return &Client{
		config:     config,
		sourceID:   sourceID,
		httpClient: httpClient,
	}, nil
}

// SourceID returns the numeric KeyCRM source orders are filed under
func (c *Client) SourceID() int64 {
	return c.sourceID
}

// CreateOrder sends one order to KeyCRM. It makes exactly one attempt.
func (c *Client) CreateOrder(ctx context.Context, order Order) (*CreatedOrder, error) {
	body, err := json.Marshal(order)
	if err != nil {
		return nil, fmt.Errorf("keycrm: failed to marshal order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.baseURL()+"/order", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("keycrm: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("keycrm: request error: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("keycrm: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var created CreatedOrder
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("keycrm: failed to parse response: %w", err)
	}

	return &created, nil
}
