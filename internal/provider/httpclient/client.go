// Package httpclient builds the HTTP clients used for release APIs and downloads.
package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/localcc/autoupdater/internal/log"
	providererrors "github.com/localcc/autoupdater/internal/provider/errors"
)

// Default configuration values.
const (
	DefaultTimeout    = 5 * time.Minute
	DefaultMaxRetries = 3
	DefaultBackoff    = 1 * time.Second
	MaxBackoff        = 30 * time.Second
	BackoffMultiplier = 2
)

// Options configures New.
type Options struct {
	// Timeout bounds a whole request including reading the body. Zero means
	// DefaultTimeout; downloads of large assets may need more.
	Timeout time.Duration

	// CAFile is a PEM bundle added to the system roots. Empty uses the system roots.
	CAFile string
}

// New creates a client with a pooled transport. The CA bundle, when given, is
// configured on the transport directly and never through process environment.
func New(opts Options) (*http.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := cleanhttp.DefaultPooledTransport()
	if opts.CAFile != "" {
		pool, err := loadCertPool(opts.CAFile)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = &tls.Config{
			RootCAs:    pool,
			MinVersion: tls.VersionTLS12,
		}
	}

	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read CA bundle: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("CA bundle %s: no PEM certificates found", path)
	}

	return pool, nil
}

// RetryConfig controls retry behavior.
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     DefaultMaxRetries,
		InitialBackoff: DefaultBackoff,
		MaxBackoff:     MaxBackoff,
		Multiplier:     BackoffMultiplier,
	}
}

// ShouldRetry determines if an error is retryable.
// Returns true for rate limiting, network errors and 429/502/503/504 responses.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	if errors.Is(err, providererrors.ErrRateLimited) || errors.Is(err, providererrors.ErrNetworkError) {
		return true
	}

	var httpErr interface{ HTTPStatusCode() int }
	if errors.As(err, &httpErr) {
		code := httpErr.HTTPStatusCode()

		return code == http.StatusTooManyRequests ||
			code == http.StatusServiceUnavailable ||
			code == http.StatusGatewayTimeout ||
			code == http.StatusBadGateway
	}

	return false
}

// WithRetry runs fn until it succeeds, returns a non-retryable error or the
// attempts run out, backing off exponentially between attempts.
func WithRetry(ctx context.Context, config RetryConfig, fn func() error) error {
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err
		if !ShouldRetry(err) || attempt == config.MaxRetries {
			break
		}

		log.DebugContext(ctx, "retrying", "attempt", attempt+1, "backoff", backoff, log.Err(err))

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * config.Multiplier)
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}
