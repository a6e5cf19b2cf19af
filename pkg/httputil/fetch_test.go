package httputil

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/qrforge/qrforge/pkg/observability"
)

func TestFetchBytes(t *testing.T) {
	payload := []byte("\x89PNG fake image data")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	data, err := FetchBytes(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes() failed: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("got %q, want %q", data, payload)
	}
}

func TestFetchBytes_NilClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, err := FetchBytes(context.Background(), nil, srv.URL)
	if err != nil {
		t.Fatalf("FetchBytes() failed: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("got %q, want %q", data, "ok")
	}
}

func TestFetchBytes_NotFound(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := FetchBytes(context.Background(), srv.Client(), srv.URL)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got error %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1 (404 is not retryable)", calls)
	}
}

func TestFetchBytes_ClientError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := FetchBytes(context.Background(), srv.Client(), srv.URL)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("got error %v, want ErrNetwork", err)
	}
	if calls != 1 {
		t.Errorf("server hit %d times, want 1 (4xx is not retryable)", calls)
	}
}

func TestFetchBytes_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, MaxFetchBytes+1))
	}))
	defer srv.Close()

	_, err := FetchBytes(context.Background(), srv.Client(), srv.URL)
	if err == nil || !strings.Contains(err.Error(), "exceeds") {
		t.Errorf("got error %v, want size cap error", err)
	}
}

// recordingHTTPHooks counts hook invocations.
type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	requests  int
	responses int
	errs      int
	status    int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string, string) { h.requests++ }
func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.responses++
	h.status = status
}
func (h *recordingHTTPHooks) OnError(context.Context, string, string, string, error) { h.errs++ }

func TestFetchBytes_EmitsHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	if _, err := FetchBytes(context.Background(), srv.Client(), srv.URL); err != nil {
		t.Fatalf("FetchBytes() failed: %v", err)
	}

	if hooks.requests != 1 || hooks.responses != 1 {
		t.Errorf("hooks = %d requests / %d responses, want 1/1", hooks.requests, hooks.responses)
	}
	if hooks.status != http.StatusOK {
		t.Errorf("hook status = %d, want 200", hooks.status)
	}
	if hooks.errs != 0 {
		t.Errorf("OnError fired %d times on a successful fetch", hooks.errs)
	}
}

func TestFetchBytes_EmitsErrorHook(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := FetchBytes(context.Background(), &http.Client{Timeout: time.Second}, srv.URL)
	if err == nil {
		t.Fatal("FetchBytes() should fail against a closed server")
	}
	if hooks.errs == 0 {
		t.Error("OnError should fire for connection failures")
	}
}
