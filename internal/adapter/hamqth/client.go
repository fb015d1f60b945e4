package hamqth

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/couchcryptid/qso-mapper/internal/observability"
)

// DefaultBaseURL is HamQTH's public DXCC endpoint.
const DefaultBaseURL = "https://www.hamqth.com/dxcc.php"

// maxPayloadBytes bounds a single response; real payloads are well under 2 KiB.
const maxPayloadBytes = 1 << 20

// Client fetches raw DXCC payloads from HamQTH.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a HamQTH client. timeout bounds each request; rps caps the
// outbound request rate.
func NewClient(baseURL string, timeout time.Duration, rps float64, metrics *observability.Metrics, logger *slog.Logger) *Client {
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch returns the raw response body for call. Non-2xx responses are errors.
func (c *Client) Fetch(ctx context.Context, call string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.baseURL + "?" + url.Values{"callsign": {call}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RemoteDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RemoteLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("dxcc request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RemoteLookups.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("hamqth error: status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		c.metrics.RemoteLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxPayloadBytes {
		c.metrics.RemoteLookups.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("hamqth response exceeds %d bytes", maxPayloadBytes)
	}

	c.logger.Debug("fetched dxcc payload", "call", call, "bytes", len(body), "duration", time.Since(start))
	return body, nil
}
