package gitlab

import (
	"errors"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	providererrors "github.com/localcc/autoupdater/internal/provider/errors"
)

// wrapAPIError converts GitLab API errors to typed provider errors.
func wrapAPIError(resp *gitlab.Response, err error) error {
	if err == nil {
		return nil
	}

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	} else {
		var glErr *gitlab.ErrorResponse
		if errors.As(err, &glErr) && glErr.Response != nil {
			status = glErr.Response.StatusCode
		}
	}

	return providererrors.Wrap(providerName, status, err)
}
