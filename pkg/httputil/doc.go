// Package httputil provides HTTP utilities for fetching remote logo images.
//
// # Overview
//
// This package provides the transport infrastructure behind remote logo
// sources:
//
//   - [FetchBytes]: bounded GET of a remote resource
//   - [Retry]: automatic retry with exponential backoff
//
// # Retry
//
// [Retry] re-executes an operation when it fails with a transient error:
//
//   - Network errors
//   - 5xx server errors
//
// Only errors wrapped in [RetryableError] are retried; everything else
// (4xx responses, decode failures) returns immediately:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    data, err = httputil.FetchBytes(ctx, client, url)
//	    return err
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Request timeout: 10 seconds
//   - Max retries: 3
//   - Base backoff: 1 second
//   - Response cap: 8 MiB
//
// Rendered images are cached by the pipeline through the cache package,
// not here; this package is transport only.
package httputil
