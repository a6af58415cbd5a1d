package httpds

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// noSleep replaces the backoff wait so retry tests run instantly.
func noSleep(c *Client) *[]time.Duration {
	var waits []time.Duration
	c.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return &waits
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.httpClient.Timeout != 30*time.Second {
		t.Errorf("timeout: got %v", c.httpClient.Timeout)
	}
	if c.maxRetries != 3 {
		t.Errorf("maxRetries: got %d", c.maxRetries)
	}
	if c.initialBackoff != 200*time.Millisecond {
		t.Errorf("initialBackoff: got %v", c.initialBackoff)
	}
	if c.maxBackoff != 5*time.Second {
		t.Errorf("maxBackoff: got %v", c.maxBackoff)
	}
}

func TestGet_RetriesServerErrorThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	c := NewClient(Config{MaxRetries: 3})
	waits := noSleep(c)

	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body: got %q", body)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3", got)
	}
	if len(*waits) != 2 {
		t.Errorf("backoff waits: got %d, want 2", len(*waits))
	}
}

func TestGet_DoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(Config{MaxRetries: 3})
	noSleep(c)

	resp, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status: got %d", resp.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("calls: got %d, want 1", got)
	}
}

func TestGet_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(Config{MaxRetries: 2})
	noSleep(c)

	if _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3 (initial + 2 retries)", got)
	}
}

func TestGet_CanceledContext(t *testing.T) {
	c := NewClient(Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "http://example.invalid/")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestGet_EmptyURL(t *testing.T) {
	c := NewClient(Config{})
	if _, err := c.Get(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestIsRetryableStatus(t *testing.T) {
	cases := []struct {
		code int
		want bool
	}{
		{200, false},
		{404, false},
		{429, true},
		{500, true},
		{503, true},
		{599, true},
	}
	for _, tc := range cases {
		if got := isRetryableStatus(tc.code); got != tc.want {
			t.Errorf("isRetryableStatus(%d) = %v, want %v", tc.code, got, tc.want)
		}
	}
}

func TestBackoffDuration(t *testing.T) {
	cases := []struct {
		initial time.Duration
		attempt int
		max     time.Duration
		want    time.Duration
	}{
		{200 * time.Millisecond, 0, 5 * time.Second, 200 * time.Millisecond},
		{200 * time.Millisecond, 1, 5 * time.Second, 400 * time.Millisecond},
		{200 * time.Millisecond, 2, 5 * time.Second, 800 * time.Millisecond},
		{200 * time.Millisecond, 10, 5 * time.Second, 5 * time.Second},
		{10 * time.Second, 0, 5 * time.Second, 5 * time.Second},
	}
	for _, tc := range cases {
		if got := backoffDuration(tc.initial, tc.attempt, tc.max); got != tc.want {
			t.Errorf("backoffDuration(%v, %d, %v) = %v, want %v",
				tc.initial, tc.attempt, tc.max, got, tc.want)
		}
	}
}
