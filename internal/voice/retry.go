package voice

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/samaira-ai/samaira/internal/reliability"
)

// maxHTTPAttempts bounds the retry loop of the raw HTTP transports.
const maxHTTPAttempts = 3

// defaultRetryWait is the base backoff between attempts; each retry
// doubles it up to an 8x cap.
const defaultRetryWait = 500 * time.Millisecond

// doWithRetry issues a request up to maxHTTPAttempts times, rebuilding
// it via build on each attempt so the body reader is fresh. Transport
// errors and retryable statuses advance the loop after a capped
// exponential backoff; any other response is returned as-is, body open,
// for the caller to consume and close.
func doWithRetry(ctx context.Context, client *http.Client, wait time.Duration, build func() (*http.Request, error)) (*http.Response, error) {
	if wait <= 0 {
		wait = defaultRetryWait
	}

	var lastErr error
	for attempt := 0; attempt < maxHTTPAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(reliability.ExponentialBackoff(attempt-1, wait, 8*wait)):
			}
		}

		req, err := build()
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if reliability.IsRetryableHTTPStatus(resp.StatusCode) {
			detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
			continue
		}
		return resp, nil
	}
	return nil, lastErr
}
