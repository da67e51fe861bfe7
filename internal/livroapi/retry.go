package livroapi

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/livroelivro/sebo/pkg/logger"
)

// Doer executes HTTP requests. Both *http.Client and the retrying wrapper
// used by Client satisfy it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	defaultMaxRetries = 3
	defaultBaseDelay  = time.Second
	defaultMaxDelay   = 30 * time.Second
	minRetryDelay     = 100 * time.Millisecond
)

// retryDoer wraps a Doer with exponential backoff and full jitter.
// Idempotent methods retry on 429, 500, 502, 503, 504 and transport errors.
// POST and PATCH retry only on 429 and 503 and on connections that were never
// established, so a write the server may have applied is not repeated. Client
// errors and context cancellation are returned immediately.
type retryDoer struct {
	next       Doer
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
	minDelay   time.Duration
	log        *slog.Logger
}

func newRetryDoer(next Doer, maxRetries int, log *slog.Logger) *retryDoer {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}
	return &retryDoer{
		next:       next,
		maxRetries: maxRetries,
		baseDelay:  defaultBaseDelay,
		maxDelay:   defaultMaxDelay,
		minDelay:   minRetryDelay,
		log:        log,
	}
}

func (rd *retryDoer) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt <= rd.maxRetries; attempt++ {
		if ctx.Err() != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, ctx.Err()
		}

		if attempt > 0 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, fmt.Errorf("livroapi: reset request body: %w", err)
				}
				req.Body = body
			}

			delay := rd.delay(attempt)
			rd.log.DebugContext(ctx, "retrying remote call",
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				logger.RetryCount(attempt),
				logger.Duration(delay),
				logger.Error(lastErr),
			)

			timer := time.NewTimer(delay)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				if lastErr != nil {
					return nil, lastErr
				}
				return nil, ctx.Err()
			}
		}

		resp, err := rd.next.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil || (!idempotent(req.Method) && !neverSent(err)) {
				return nil, err
			}
			continue
		}

		if !retryableStatus(req.Method, resp.StatusCode) || attempt == rd.maxRetries {
			return resp, nil
		}

		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		lastErr = fmt.Errorf("livroapi: retryable status %d", resp.StatusCode)
	}

	return nil, lastErr
}

// delay is random(0, min(maxDelay, baseDelay*2^(attempt-1))), floored at minDelay.
func (rd *retryDoer) delay(attempt int) time.Duration {
	exp := rd.baseDelay << (attempt - 1)
	if exp <= 0 || exp > rd.maxDelay {
		exp = rd.maxDelay
	}
	d := time.Duration(rand.Int64N(int64(exp) + 1))
	if d < rd.minDelay {
		d = rd.minDelay
	}
	return d
}

func idempotent(method string) bool {
	return method != http.MethodPost && method != http.MethodPatch
}

// neverSent reports a failure to connect, before any byte of the request
// was written.
func neverSent(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

func retryableStatus(method string, code int) bool {
	if !idempotent(method) {
		return code == http.StatusTooManyRequests || code == http.StatusServiceUnavailable
	}
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
