package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agendadigital/forms-service/internal/config"
)

func testClient(t *testing.T, cfg config.WebhookConfig) *Client {
	t.Helper()
	return NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSend_Success(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, config.WebhookConfig{Timeout: time.Second, MaxRetries: 2, RetryDelay: time.Millisecond})

	attempts, err := c.Send(context.Background(), srv.URL, map[string]string{"descricao": "ok"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if attempts != 1 || hits.Load() != 1 {
		t.Errorf("attempts = %d, hits = %d, want 1/1", attempts, hits.Load())
	}
}

func TestSend_ServerErrorNotRetried(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(t, config.WebhookConfig{Timeout: time.Second, MaxRetries: 2, RetryDelay: time.Millisecond})

	attempts, err := c.Send(context.Background(), srv.URL, map[string]string{})

	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("Send() error = %v, want *ServerError", err)
	}
	if serverErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", serverErr.Status)
	}
	if attempts != 1 || hits.Load() != 1 {
		t.Errorf("attempts = %d, hits = %d, want exactly one attempt", attempts, hits.Load())
	}
}

func TestSend_ConnectionFailureRetriedToBound(t *testing.T) {
	// a closed server guarantees connection refused on every attempt
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := testClient(t, config.WebhookConfig{Timeout: time.Second, MaxRetries: 2, RetryDelay: time.Millisecond})

	attempts, err := c.Send(context.Background(), url, map[string]string{})

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Send() error = %v, want *NetworkError", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (1 initial + 2 retries)", attempts)
	}
}

func TestSend_TimeoutClassified(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
	}))
	defer srv.Close()
	defer close(release)

	c := testClient(t, config.WebhookConfig{Timeout: 30 * time.Millisecond, MaxRetries: 1, RetryDelay: time.Millisecond})

	attempts, err := c.Send(context.Background(), srv.URL, map[string]string{})

	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("Send() error = %v, want *TimeoutError", err)
	}
	// timeouts retry like connection failures
	if attempts != 2 || hits.Load() != 2 {
		t.Errorf("attempts = %d, hits = %d, want 2/2", attempts, hits.Load())
	}
}

func TestSend_RecoversAfterDroppedConnection(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			// drop the connection mid-request to force a network-level failure
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Fatal("response writer does not support hijacking")
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Fatalf("hijack failed: %v", err)
			}
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := testClient(t, config.WebhookConfig{Timeout: time.Second, MaxRetries: 2, RetryDelay: time.Millisecond})

	attempts, err := c.Send(context.Background(), srv.URL, map[string]string{})
	if err != nil {
		t.Fatalf("Send() error = %v, want recovery on retry", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestSend_ContextCancelStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := testClient(t, config.WebhookConfig{Timeout: time.Second, MaxRetries: 2, RetryDelay: 10 * time.Second})

	if _, err := c.Send(ctx, url, map[string]string{}); err == nil {
		t.Fatal("Send() with cancelled context returned nil error")
	}
}
