// Package leadconnector is the single place that knows how to talk to the CRM
// platform's HTTP surface. It builds authenticated, versioned requests,
// consults the shared rate limiter before dispatch, and normalizes every
// response or failure into a uniform envelope and error taxonomy.
//
// The gateway performs no retry or backoff. Retry policy belongs to the
// orchestration layer so it can differ per use case.
package leadconnector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/config"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/apierror"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/metrics"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/ratelimit"
)

// rateLimitKey is the shared quota bucket for the whole platform API. Every
// caller in the process draws from it.
const rateLimitKey = "leadconnector-api"

// Client dispatches requests against the platform API.
type Client struct {
	rest       *resty.Client
	limiter    *ratelimit.Limiter
	log        zerolog.Logger
	locationID string
}

// New constructs a platform client. The limiter is injected so the
// one-shared-quota-per-process behavior stays visible and testable.
// Missing credentials fail here, not on first call.
func New(cfg *config.Config, limiter *ratelimit.Limiter, log zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.CRMAPIKey) == "" {
		return nil, apierror.New(apierror.KindConfiguration, "CRM API key is required")
	}
	if strings.TrimSpace(cfg.CRMLocationID) == "" {
		return nil, apierror.New(apierror.KindConfiguration, "CRM location id is required")
	}
	if limiter == nil {
		return nil, apierror.New(apierror.KindConfiguration, "rate limiter is required")
	}

	apiVersion := cfg.CRMAPIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	baseURL := cfg.CRMBaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}

	rest := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.HTTPTimeout).
		SetAuthToken(cfg.CRMAPIKey).
		SetHeader("Version", apiVersion).
		SetHeader("Accept", "application/json")

	return &Client{
		rest:       rest,
		limiter:    limiter,
		log:        log.With().Str("component", "leadconnector-client").Logger(),
		locationID: cfg.CRMLocationID,
	}, nil
}

// LocationID returns the tenant scope every resource call is made under.
func (c *Client) LocationID() string {
	return c.locationID
}

// Quota reports the current state of the shared quota without consuming it.
// Introspection never goes through the limiter's consuming path.
func (c *Client) Quota() ratelimit.Result {
	return c.limiter.Get(rateLimitKey)
}

type callOptions struct {
	skipRateLimit bool
}

// CallOption adjusts a single dispatch.
type CallOption func(*callOptions)

// WithoutRateLimit bypasses the local quota check. Reserved for introspection
// calls that must never be throttled.
func WithoutRateLimit() CallOption {
	return func(o *callOptions) { o.skipRateLimit = true }
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query Query, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, path, nil, query, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, query Query, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body, query, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, query Query, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, body, query, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any, query Query, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodPatch, path, body, query, opts...)
}

// Delete issues a DELETE request. Some platform delete endpoints accept a
// body, so one is allowed here.
func (c *Client) Delete(ctx context.Context, path string, body any, query Query, opts ...CallOption) (*Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, body, query, opts...)
}

// Do dispatches a request with an arbitrary verb. All convenience methods
// funnel through here.
func (c *Client) Do(ctx context.Context, method, path string, body any, query Query, opts ...CallOption) (*Envelope, error) {
	options := callOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	requestID := uuid.NewString()
	log := c.log.With().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Logger()
	endpoint := endpointLabel(path)

	if !options.skipRateLimit {
		res := c.limiter.Check(rateLimitKey)
		if !res.Allowed {
			metrics.RateLimitedTotal.WithLabelValues("local").Inc()
			metrics.RequestsTotal.WithLabelValues(method, endpoint, "rate_limited").Inc()
			log.Warn().Time("reset_at", res.ResetAt).Msg("rejected by local quota")
			return nil, &apierror.Error{
				Kind:    apierror.KindRateLimited,
				Message: "local request quota exhausted",
				ResetAt: res.ResetAt,
			}
		}
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", requestID)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	started := time.Now()
	resp, err := req.Execute(method, path)
	metrics.RequestDuration.WithLabelValues(method, endpoint).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, endpoint, "network_error").Inc()
		log.Error().Err(err).Msg("transport failure")
		return nil, apierror.Wrap(apierror.KindNetwork, fmt.Sprintf("%s %s", method, path), err)
	}

	if resp.IsError() {
		return nil, c.remoteError(log, method, endpoint, resp)
	}

	env, err := parseEnvelope(resp.Body())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, endpoint, "malformed").Inc()
		log.Error().Err(err).Msg("unparseable success response")
		return nil, err
	}

	metrics.RequestsTotal.WithLabelValues(method, endpoint, "ok").Inc()
	log.Debug().Int("status", resp.StatusCode()).Msg("request completed")
	return env, nil
}

// remoteError maps a non-2xx response onto the error taxonomy. A remote 429
// uses the same kind as a local quota rejection so callers can handle "I am
// being throttled" uniformly regardless of source.
func (c *Client) remoteError(log zerolog.Logger, method, endpoint string, resp *resty.Response) error {
	status := resp.StatusCode()
	message := remoteMessage(resp.Body(), status)

	switch {
	case status == http.StatusTooManyRequests:
		metrics.RateLimitedTotal.WithLabelValues("remote").Inc()
		metrics.RequestsTotal.WithLabelValues(method, endpoint, "rate_limited").Inc()
		resetAt := parseRetryAfter(resp.Header().Get("Retry-After"))
		log.Warn().Time("reset_at", resetAt).Msg("throttled by platform")
		return &apierror.Error{
			Kind:    apierror.KindRateLimited,
			Status:  status,
			Message: message,
			ResetAt: resetAt,
		}
	case status >= 500:
		metrics.RemoteErrorsTotal.WithLabelValues("5xx").Inc()
		metrics.RequestsTotal.WithLabelValues(method, endpoint, "remote_error").Inc()
		log.Error().Int("status", status).Str("message", message).Msg("platform server error")
		return &apierror.Error{Kind: apierror.KindRemoteServer, Status: status, Message: message}
	default:
		metrics.RemoteErrorsTotal.WithLabelValues("4xx").Inc()
		metrics.RequestsTotal.WithLabelValues(method, endpoint, "remote_error").Inc()
		log.Warn().Int("status", status).Str("message", message).Msg("platform client error")
		return &apierror.Error{Kind: apierror.KindRemoteClient, Status: status, Message: message}
	}
}

// remoteMessage extracts the best-effort human message from an error body.
// The platform sends message as either a string or a list of strings.
func remoteMessage(body []byte, status int) string {
	fallback := fmt.Sprintf("%d %s", status, http.StatusText(status))
	if len(body) == 0 {
		return fallback
	}

	var probe struct {
		Message any    `json:"message"`
		Msg     string `json:"msg"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return fallback
	}

	switch m := probe.Message.(type) {
	case string:
		if m != "" {
			return m
		}
	case []any:
		parts := make([]string, 0, len(m))
		for _, p := range m {
			if s, ok := p.(string); ok && s != "" {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	if probe.Msg != "" {
		return probe.Msg
	}
	if probe.Error != "" {
		return probe.Error
	}
	return fallback
}

// parseRetryAfter understands both delta-seconds and HTTP-date forms. Zero
// time means the platform gave no usable hint.
func parseRetryAfter(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Now().Add(time.Duration(secs) * time.Second)
	}
	if at, err := http.ParseTime(value); err == nil {
		return at
	}
	return time.Time{}
}

// endpointLabel keeps metric cardinality bounded: the resource segment of the
// path, never record ids.
func endpointLabel(path string) string {
	trimmed := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(trimmed, '/'); i > 0 {
		return trimmed[:i]
	}
	if trimmed == "" {
		return "root"
	}
	return trimmed
}
