package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/agendadigital/forms-service/internal/config"
)

// Client delivers form payloads to the fixed automation webhooks. Delivery is
// at-least-once: the webhook acknowledges with nothing but an HTTP status, so
// a timed-out attempt may still have been processed downstream.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int // additional attempts after the first
	retryDelay time.Duration
	logger     *slog.Logger
}

func NewClient(cfg config.WebhookConfig, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retryDelay := cfg.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}

	return &Client{
		httpClient: &http.Client{},
		timeout:    timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Send POSTs the payload as JSON to url and classifies the terminal outcome.
// Connection failures and timeouts are retried sequentially up to the retry
// bound with a fixed delay between attempts; a non-2xx response surfaces
// immediately as *ServerError. The returned count is the number of attempts
// actually made.
func (c *Client) Send(ctx context.Context, url string, payload interface{}) (int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to encode payload: %w", err)
	}

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= c.maxRetries+1; attempt++ {
		attempts = attempt

		if attempt > 1 {
			c.logger.Info("Retrying webhook delivery", "url", url, "attempt", attempt)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return attempts, ctx.Err()
			}
		}

		err := c.attempt(ctx, url, body)
		if err == nil {
			return attempts, nil
		}
		lastErr = err

		var serverErr *ServerError
		if errors.As(err, &serverErr) {
			// endpoint reachable and said no; retrying would only duplicate
			return attempts, err
		}
		if ctx.Err() != nil {
			return attempts, err
		}

		c.logger.Warn("Webhook delivery attempt failed", "url", url, "attempt", attempt, "error", err)
	}

	return attempts, lastErr
}

// attempt performs one delivery with its own deadline.
func (c *Client) attempt(ctx context.Context, url string, body []byte) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return &TimeoutError{Err: err}
		}
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	// body content is irrelevant; only the status carries meaning
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &ServerError{Status: resp.StatusCode}
	}
	return nil
}
