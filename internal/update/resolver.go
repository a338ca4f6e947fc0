package update

import (
	"context"
	"fmt"
	"slices"

	"github.com/localcc/autoupdater/internal/log"
)

// DefaultPerPage is the page size requested from backends.
const DefaultPerPage = 100

// Backend lists releases from a release-hosting service one page at a time.
// Pages are 1-indexed and an empty page marks the end of the listing.
type Backend interface {
	FetchPage(ctx context.Context, page, perPage int) ([]Release, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, page, perPage int) ([]Release, error)

func (f BackendFunc) FetchPage(ctx context.Context, page, perPage int) ([]Release, error) {
	return f(ctx, page, perPage)
}

// Resolver finds the release to install. It keeps no state between calls.
type Resolver struct {
	backend Backend
	perPage int
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPerPage sets the page size. Non-positive values are ignored.
func WithPerPage(n int) ResolverOption {
	return func(r *Resolver) {
		if n > 0 {
			r.perPage = n
		}
	}
}

// NewResolver creates a resolver over the given backend.
func NewResolver(b Backend, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		backend: b,
		perPage: DefaultPerPage,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FetchAll requests pages 1, 2, ... until a page comes back empty and returns the
// concatenation in request order. A failing page aborts the whole listing.
func (r *Resolver) FetchAll(ctx context.Context) ([]Release, error) {
	var all []Release
	for page := 1; ; page++ {
		releases, err := r.backend.FetchPage(ctx, page, r.perPage)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %w", ErrBackend, page, err)
		}
		if len(releases) == 0 {
			log.DebugContext(ctx, "release listing complete", "pages", page-1, "releases", len(all))

			return all, nil
		}
		all = append(all, releases...)
	}
}

// FetchMatching returns every release passing c, newest first under cmp.
// Releases cmp reports equal keep their fetch order. A nil cmp means CompareTags.
func (r *Resolver) FetchMatching(ctx context.Context, c Criteria, cmp Comparator) ([]Release, error) {
	all, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	matching := c.Filter(all)
	log.DebugContext(ctx, "filtered releases", "fetched", len(all), "matching", len(matching))

	cmp = comparatorOrDefault(cmp)
	slices.SortStableFunc(matching, func(a, b Release) int {
		return cmp(b.Tag, a.Tag)
	})

	return matching, nil
}

// Resolve returns the newest release passing c. When several releases compare
// equal to the maximum, the one fetched first wins.
func (r *Resolver) Resolve(ctx context.Context, c Criteria, cmp Comparator) (*Release, error) {
	all, err := r.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	cmp = comparatorOrDefault(cmp)

	var best *Release
	matched := 0
	for i := range all {
		if !c.Matches(all[i]) {
			continue
		}
		matched++
		if best == nil || cmp(all[i].Tag, best.Tag) > 0 {
			best = &all[i]
		}
	}

	log.DebugContext(ctx, "filtered releases", "fetched", len(all), "matching", matched)

	if best == nil {
		return nil, ErrNoMatchingRelease
	}

	log.DebugContext(ctx, "resolved release", log.Tag(best.Tag))

	return best, nil
}

// GetIfNewer resolves the newest matching release and returns it only when it is
// strictly newer than c.Baseline. Without a baseline the resolved release is
// returned as is. A nil release with a nil error means the baseline is current.
func (r *Resolver) GetIfNewer(ctx context.Context, c Criteria, cmp Comparator) (*Release, error) {
	release, err := r.Resolve(ctx, c, cmp)
	if err != nil {
		return nil, err
	}

	if c.Baseline == "" {
		return release, nil
	}

	if comparatorOrDefault(cmp)(release.Tag, c.Baseline) > 0 {
		return release, nil
	}

	log.DebugContext(ctx, "baseline is up to date", log.Tag(release.Tag), "baseline", c.Baseline)

	return nil, nil
}

func comparatorOrDefault(cmp Comparator) Comparator {
	if cmp == nil {
		return CompareTags
	}

	return cmp
}
