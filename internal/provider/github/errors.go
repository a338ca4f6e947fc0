package github

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v67/github"

	providererrors "github.com/localcc/autoupdater/internal/provider/errors"
)

// wrapAPIError converts GitHub API errors to typed provider errors.
func wrapAPIError(resp *github.Response, err error) error {
	if err == nil {
		return nil
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return providererrors.NewProviderError(providerName,
			fmt.Errorf("%w: resets at %s", providererrors.ErrRateLimited, rateErr.Rate.Reset.Time.Format("15:04:05")))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return providererrors.NewProviderError(providerName,
			fmt.Errorf("%w: secondary limit: %w", providererrors.ErrRateLimited, err))
	}

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	// Primary rate limits that go-github did not recognize still carry the header.
	if status == http.StatusForbidden {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.Header.Get("X-RateLimit-Remaining") == "0" {
			status = http.StatusTooManyRequests
		}
	}

	return providererrors.Wrap(providerName, status, err)
}
