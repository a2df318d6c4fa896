// Package handover provides the client for the external handover lookup
// service. The service answers one question: the handover value for a
// station type id, or a 404 when it has none.
package handover

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/cellmesh/cellmesh/internal/calc"
	"github.com/cellmesh/cellmesh/internal/provider/resilience"
)

const (
	// ProviderName identifies this lookup provider.
	ProviderName = "handover"

	// DefaultTimeout applies to each lookup round-trip.
	DefaultTimeout = 5 * time.Second
)

// ClientConfig holds configuration for the handover lookup client.
type ClientConfig struct {
	// BaseURL is the lookup service base URL (required). Trailing slashes
	// are stripped.
	BaseURL string

	// Timeout is the per-request timeout (optional, defaults to 5s).
	Timeout time.Duration

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with the configured timeout.
	HTTPClient *resilience.Client

	// Registry tracks client health for the ops status endpoint (optional).
	Registry *resilience.Registry

	// Metrics records lookup durations and outcomes (optional).
	Metrics *resilience.ProviderMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches handover values over HTTP. It implements
// calc.HandoverSource.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	registry   *resilience.Registry
	metrics    *resilience.ProviderMetrics
	logger     zerolog.Logger
}

// NewClient creates a new handover lookup client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		registry:   cfg.Registry,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch looks up the handover value for a station type. A 404 from the
// service becomes a *calc.LookupNotFoundError; any other failure is
// returned as-is for the caller to propagate.
func (c *Client) Fetch(ctx context.Context, stationTypeID int) (int, error) {
	start := time.Now()
	value, err := c.fetch(ctx, stationTypeID)

	if c.metrics != nil {
		c.metrics.RecordRequest(ProviderName, "fetch", time.Since(start), err)
	}
	// A 404 is a valid answer from the service, not a provider failure.
	if c.registry != nil {
		if err != nil && !calc.IsDomainError(err) {
			c.registry.RecordFailure(ProviderName, err)
		} else {
			c.registry.RecordSuccess(ProviderName)
		}
	}

	return value, err
}

func (c *Client) fetch(ctx context.Context, stationTypeID int) (int, error) {
	url := fmt.Sprintf("%s/api/basestation/%d", c.baseURL, stationTypeID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, &calc.LookupNotFoundError{StationTypeID: stationTypeID}
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// The body is a bare JSON integer.
	var value json.Number
	if err := json.NewDecoder(resp.Body).Decode(&value); err != nil {
		return 0, fmt.Errorf("decoding response: %w", err)
	}
	parsed, err := value.Int64()
	if err != nil {
		return 0, fmt.Errorf("parsing handover value %q: %w", value.String(), err)
	}

	c.logger.Debug().
		Int("station_type_id", stationTypeID).
		Int64("value", parsed).
		Msg("handover value fetched")

	return int(parsed), nil
}
