// Package github lists releases of a GitHub repository.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v67/github"
	"golang.org/x/oauth2"

	"github.com/localcc/autoupdater/internal/log"
	providererrors "github.com/localcc/autoupdater/internal/provider/errors"
	"github.com/localcc/autoupdater/internal/update"
)

const providerName = "github"

// Client wraps the GitHub API client for one repository.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
	token string
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

// WithHTTPClient sets the underlying HTTP client. With a token, OAuth2 is layered
// on top of it.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithBaseURL points the client at GitHub Enterprise or a test server.
func WithBaseURL(base string) Option {
	return func(o *clientOptions) {
		o.baseURL = base
	}
}

// NewClient creates a new GitHub API client.
// If no token is given requests are unauthenticated and subject to lower rate limits.
func NewClient(owner, repo string, opts ...Option) (*Client, error) {
	if owner == "" || repo == "" || strings.Contains(owner, "/") || strings.Contains(repo, "/") {
		return nil, providererrors.NewProviderError(providerName,
			fmt.Errorf("%w: %q/%q", providererrors.ErrInvalidReference, owner, repo))
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	httpClient := o.httpClient
	if o.token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := url.Parse(strings.TrimSuffix(o.baseURL, "/") + "/")
		if err != nil {
			return nil, providererrors.NewProviderError(providerName,
				fmt.Errorf("%w: base url %q: %w", providererrors.ErrInvalidReference, o.baseURL, err))
		}
		gh.BaseURL = u
	}

	return &Client{
		gh:    gh,
		owner: owner,
		repo:  repo,
		token: o.token,
	}, nil
}

// FetchPage lists one page of releases, newest first as GitHub orders them.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) ([]update.Release, error) {
	releases, resp, err := c.gh.Repositories.ListReleases(ctx, c.owner, c.repo, &github.ListOptions{
		Page:    page,
		PerPage: perPage,
	})
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

// AuthHeaders returns the header asset downloads need for private repositories.
func (c *Client) AuthHeaders() http.Header {
	h := http.Header{}
	if c.token != "" {
		h.Set("Authorization", "token "+c.token)
	}

	return h
}

// toRelease converts a GitHub release. Assets use the API URL, which serves the
// binary when requested with Accept: application/octet-stream and honours the
// token for private repositories.
func toRelease(r *github.RepositoryRelease) update.Release {
	assets := make([]update.Asset, 0, len(r.Assets))
	for _, a := range r.Assets {
		assets = append(assets, update.Asset{
			Name:        a.GetName(),
			DownloadURL: a.GetURL(),
			Size:        int64(a.GetSize()),
		})
	}

	return update.Release{
		Tag:         r.GetTagName(),
		Branch:      r.GetTargetCommitish(),
		Name:        r.GetName(),
		Prerelease:  r.GetPrerelease(),
		Assets:      assets,
		Body:        r.GetBody(),
		HTMLURL:     r.GetHTMLURL(),
		PublishedAt: r.GetPublishedAt().Time,
	}
}
