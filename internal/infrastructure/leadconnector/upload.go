package leadconnector

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/leadconnector/apierror"
	"github.com/galaxy-co-ai/results-roofing-sub001/internal/infrastructure/metrics"
)

// Upload dispatches a multipart file upload. It follows the same quota and
// error-normalization path as Do; only the body encoding differs.
func (c *Client) Upload(ctx context.Context, path, field, filename string, data []byte, form map[string]string, opts ...CallOption) (*Envelope, error) {
	options := callOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	requestID := uuid.NewString()
	log := c.log.With().
		Str("request_id", requestID).
		Str("path", path).
		Str("filename", filename).
		Logger()
	endpoint := endpointLabel(path)

	if !options.skipRateLimit {
		res := c.limiter.Check(rateLimitKey)
		if !res.Allowed {
			metrics.RateLimitedTotal.WithLabelValues("local").Inc()
			metrics.RequestsTotal.WithLabelValues(http.MethodPost, endpoint, "rate_limited").Inc()
			return nil, &apierror.Error{
				Kind:    apierror.KindRateLimited,
				Message: "local request quota exhausted",
				ResetAt: res.ResetAt,
			}
		}
	}

	req := c.rest.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", requestID).
		SetFileReader(field, filename, bytes.NewReader(data))
	if len(form) > 0 {
		req.SetFormData(form)
	}

	started := time.Now()
	resp, err := req.Post(path)
	metrics.RequestDuration.WithLabelValues(http.MethodPost, endpoint).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(http.MethodPost, endpoint, "network_error").Inc()
		log.Error().Err(err).Msg("upload transport failure")
		return nil, apierror.Wrap(apierror.KindNetwork, fmt.Sprintf("POST %s", path), err)
	}

	if resp.IsError() {
		return nil, c.remoteError(log, http.MethodPost, endpoint, resp)
	}

	env, err := parseEnvelope(resp.Body())
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(http.MethodPost, endpoint, "malformed").Inc()
		return nil, err
	}

	metrics.RequestsTotal.WithLabelValues(http.MethodPost, endpoint, "ok").Inc()
	log.Debug().Int("status", resp.StatusCode()).Msg("upload completed")
	return env, nil
}
