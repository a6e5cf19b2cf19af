package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/qrforge/qrforge/pkg/observability"
)

const httpTimeout = 10 * time.Second

// MaxFetchBytes caps the body size accepted from a remote source. Logo
// images are small; anything larger is rejected rather than buffered.
const MaxFetchBytes = 8 << 20

var (
	// ErrNotFound is returned when the remote resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// NewClient creates an HTTP client with a standard timeout for logo fetches.
func NewClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// FetchBytes performs a GET request and returns the full response body,
// capped at [MaxFetchBytes]. Transient failures are retried with backoff.
// A nil client uses [NewClient].
func FetchBytes(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = NewClient()
	}

	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		body, err := doGet(ctx, client, url)
		if err != nil {
			return err
		}
		defer body.Close()

		data, err = io.ReadAll(io.LimitReader(body, MaxFetchBytes+1))
		if err != nil {
			return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		if len(data) > MaxFetchBytes {
			return fmt.Errorf("response exceeds %d bytes", MaxFetchBytes)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func doGet(ctx context.Context, client *http.Client, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	host, path := splitURL(rawURL)
	observability.HTTP().OnRequest(ctx, http.MethodGet, host, path)
	start := time.Now()

	resp, err := client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, http.MethodGet, host, path, err)
		return nil, Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	observability.HTTP().OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp.Body, nil
}

// splitURL extracts the host and path for hook events.
func splitURL(rawURL string) (string, string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, ""
	}
	return u.Host, u.Path
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
