package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/localcc/autoupdater/internal/log"
	"github.com/localcc/autoupdater/internal/provider"
	"github.com/localcc/autoupdater/internal/provider/httpclient"
	"github.com/localcc/autoupdater/internal/update"
)

// session bundles what a command needs to talk to the configured release host.
type session struct {
	source     provider.Source
	resolver   *update.Resolver
	downloader *update.Downloader
	compare    update.Comparator
}

// openSession builds the HTTP client, backend, resolver and downloader from the
// loaded configuration.
func (a *app) openSession(ctx context.Context) (*session, error) {
	s := a.cfg.Source
	if err := s.CheckComplete(); err != nil {
		return nil, err
	}

	cmp, err := s.CompareFunc()
	if err != nil {
		return nil, err
	}

	hc, err := httpclient.New(s.HTTPOptions())
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}

	tok := s.ResolveToken()
	if tok == "" {
		log.Debug("no token configured; using unauthenticated requests", "provider", s.Provider)
	}

	src, err := a.registry.Create(ctx, s.Provider, provider.Settings{
		Owner:      s.Owner,
		Repo:       s.Repo,
		Project:    s.Project,
		BaseURL:    s.APIURL,
		Token:      tok,
		HTTPClient: hc,
	})
	if err != nil {
		return nil, err
	}

	return &session{
		source:   src,
		resolver: update.NewResolver(src, update.WithPerPage(s.PerPage)),
		downloader: update.NewDownloader(
			update.WithHTTPClient(hc),
			update.WithUserAgent(userAgent()),
		),
		compare: cmp,
	}, nil
}

// newest returns the newest matching release newer than baseline, retrying
// rate-limit and transient network failures. nil means baseline is current.
func (s *session) newest(ctx context.Context, c update.Criteria) (*update.Release, error) {
	var release *update.Release
	err := httpclient.WithRetry(ctx, httpclient.DefaultRetryConfig(), func() error {
		var err error
		release, err = s.resolver.GetIfNewer(ctx, c, s.compare)

		return err
	})

	return release, err
}

// matching returns every matching release, newest first, with the same retry policy.
func (s *session) matching(ctx context.Context, c update.Criteria) ([]update.Release, error) {
	var releases []update.Release
	err := httpclient.WithRetry(ctx, httpclient.DefaultRetryConfig(), func() error {
		var err error
		releases, err = s.resolver.FetchMatching(ctx, c, s.compare)

		return err
	})

	return releases, err
}

// baseline is the version the newer-than check compares against. Dev builds have
// none, so any release counts.
func baseline() string {
	if isDevBuild() {
		return ""
	}

	return Version
}

func isDevBuild() bool {
	return Version == "" || Version == "dev" || Version == "none"
}

func userAgent() string {
	return update.DefaultUserAgent + "/" + Version
}

// confirmAction prompts the user for confirmation.
// Returns true if user confirms, false otherwise.
func confirmAction(in io.Reader, out io.Writer, prompt string, skipConfirm bool) (bool, error) {
	if skipConfirm {
		return true, nil
	}

	_, _ = fmt.Fprintf(out, "%s\nAre you sure? [y/N]: ", prompt)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil && (err != io.EOF || response == "") {
		return false, fmt.Errorf("read response: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))

	return response == "y" || response == "yes", nil
}
