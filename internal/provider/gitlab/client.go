// Package gitlab lists releases of a GitLab project.
package gitlab

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	gitlab "gitlab.com/gitlab-org/api/client-go"

	"github.com/localcc/autoupdater/internal/log"
	providererrors "github.com/localcc/autoupdater/internal/provider/errors"
	"github.com/localcc/autoupdater/internal/update"
)

const providerName = "gitlab"

// Client wraps the GitLab API client for one project.
type Client struct {
	gl      *gitlab.Client
	project string // Project path (e.g., "group/project") or numeric ID
	token   string
}

type clientOptions struct {
	token      string
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*clientOptions)

// WithToken authenticates API requests and asset downloads.
func WithToken(token string) Option {
	return func(o *clientOptions) {
		o.token = token
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithBaseURL points the client at a self-hosted instance. "/api/v4" is appended
// when missing.
func WithBaseURL(base string) Option {
	return func(o *clientOptions) {
		o.baseURL = base
	}
}

// NewClient creates a new GitLab API client.
func NewClient(project string, opts ...Option) (*Client, error) {
	project = strings.Trim(project, "/")
	if project == "" {
		return nil, providererrors.NewProviderError(providerName,
			fmt.Errorf("%w: empty project", providererrors.ErrInvalidReference))
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	var glOpts []gitlab.ClientOptionFunc
	if o.baseURL != "" {
		glOpts = append(glOpts, gitlab.WithBaseURL(o.baseURL))
	}
	if o.httpClient != nil {
		glOpts = append(glOpts, gitlab.WithHTTPClient(o.httpClient))
	}

	gl, err := gitlab.NewClient(o.token, glOpts...)
	if err != nil {
		return nil, providererrors.NewProviderError(providerName,
			fmt.Errorf("%w: %w", providererrors.ErrInvalidReference, err))
	}

	return &Client{
		gl:      gl,
		project: project,
		token:   o.token,
	}, nil
}

// FetchPage lists one page of releases, newest first as GitLab orders them.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) ([]update.Release, error) {
	opts := &gitlab.ListReleasesOptions{}
	opts.Page = int64(page)
	opts.PerPage = int64(perPage)

	releases, resp, err := c.gl.Releases.ListReleases(c.project, opts, gitlab.WithContext(ctx))
	if err != nil {
		return nil, wrapAPIError(resp, err)
	}

	log.DebugContext(ctx, "fetched release page", "provider", providerName, "page", page, "releases", len(releases))

	out := make([]update.Release, 0, len(releases))
	for _, r := range releases {
		out = append(out, toRelease(r))
	}

	return out, nil
}

// AuthHeaders returns the header asset downloads need for private projects.
func (c *Client) AuthHeaders() http.Header {
	h := http.Header{}
	if c.token != "" {
		h.Set("PRIVATE-TOKEN", c.token)
	}

	return h
}

// toRelease converts a GitLab release. GitLab releases have no target branch and
// upcoming releases (released_at in the future) are reported as prereleases.
func toRelease(r *gitlab.Release) update.Release {
	assets := make([]update.Asset, 0, len(r.Assets.Links))
	for _, link := range r.Assets.Links {
		if link == nil {
			continue
		}
		downloadURL := link.DirectAssetURL
		if downloadURL == "" {
			downloadURL = link.URL
		}
		assets = append(assets, update.Asset{
			Name:        link.Name,
			DownloadURL: downloadURL,
		})
	}

	out := update.Release{
		Tag:        r.TagName,
		Name:       r.Name,
		Prerelease: r.UpcomingRelease,
		Assets:     assets,
		Body:       r.Description,
	}
	if r.ReleasedAt != nil {
		out.PublishedAt = *r.ReleasedAt
	}

	return out
}
