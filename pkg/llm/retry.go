package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	maxRetries     = 3
	retryBaseDelay = 200 * time.Millisecond
)

// doWithRetry issues the request with bounded retries on transient failures
// (network errors, 429, 5xx). The request builder is invoked per attempt so
// the body reader is fresh each time.
func doWithRetry(ctx context.Context, client *http.Client, build func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := retryBaseDelay << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		var req *http.Request
		req, err = build()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		resp, err = client.Do(req)
		if err != nil {
			continue
		}
		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}
		// Drain so the connection can be reused before retrying.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}

	if err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("request failed after %d attempts: status %d", maxRetries+1, resp.StatusCode)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
