package update

import (
	"context"
	"errors"
	"testing"
)

// pagedBackend serves fixed pages and records every request.
type pagedBackend struct {
	pages    [][]Release
	failPage int
	requests []int
	perPage  int
}

func (b *pagedBackend) FetchPage(_ context.Context, page, perPage int) ([]Release, error) {
	b.requests = append(b.requests, page)
	b.perPage = perPage
	if page == b.failPage {
		return nil, errors.New("connection reset")
	}
	if page > len(b.pages) {
		return nil, nil
	}

	return b.pages[page-1], nil
}

func releases(tags ...string) []Release {
	out := make([]Release, 0, len(tags))
	for _, tag := range tags {
		out = append(out, Release{Tag: tag, Name: tag})
	}

	return out
}

func TestResolverFetchAllPagination(t *testing.T) {
	backend := &pagedBackend{
		pages: [][]Release{
			releases("v1.0.0", "v1.1.0"),
			releases("v0.9.0"),
		},
	}

	got, err := NewResolver(backend).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}

	wantTags := []string{"v1.0.0", "v1.1.0", "v0.9.0"}
	if len(got) != len(wantTags) {
		t.Fatalf("FetchAll() returned %d releases, want %d", len(got), len(wantTags))
	}
	for i, tag := range wantTags {
		if got[i].Tag != tag {
			t.Errorf("FetchAll()[%d].Tag = %q, want %q", i, got[i].Tag, tag)
		}
	}

	if len(backend.requests) != 3 {
		t.Errorf("backend requests = %v, want exactly 3", backend.requests)
	}
	if backend.perPage != DefaultPerPage {
		t.Errorf("perPage = %d, want %d", backend.perPage, DefaultPerPage)
	}
}

func TestResolverFetchAllEmpty(t *testing.T) {
	backend := &pagedBackend{}

	got, err := NewResolver(backend, WithPerPage(10)).FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("FetchAll() = %v, want empty", got)
	}
	if backend.perPage != 10 {
		t.Errorf("perPage = %d, want 10", backend.perPage)
	}
}

func TestResolverFetchAllPageError(t *testing.T) {
	backend := &pagedBackend{
		pages:    [][]Release{releases("v1.0.0"), releases("v2.0.0")},
		failPage: 2,
	}

	got, err := NewResolver(backend).FetchAll(context.Background())
	if !errors.Is(err, ErrBackend) {
		t.Fatalf("FetchAll() error = %v, want %v", err, ErrBackend)
	}
	if got != nil {
		t.Errorf("FetchAll() = %v, want no partial result", got)
	}
	if len(backend.requests) != 2 {
		t.Errorf("backend requests = %v, want pagination to stop at the failing page", backend.requests)
	}
}

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name     string
		pages    [][]Release
		criteria Criteria
		wantTag  string
		wantErr  error
	}{
		{
			name:    "newest across pages",
			pages:   [][]Release{releases("v1.2.0", "v1.10.0"), releases("v1.9.0")},
			wantTag: "v1.10.0",
		},
		{
			name: "prerelease skipped",
			pages: [][]Release{{
				{Tag: "v2.0.0-rc1", Prerelease: true},
				{Tag: "v1.5.0"},
			}},
			wantTag: "v1.5.0",
		},
		{
			name: "prerelease allowed",
			pages: [][]Release{{
				{Tag: "v2.0.0-rc1", Prerelease: true},
				{Tag: "v1.5.0"},
			}},
			criteria: Criteria{AllowPrerelease: true},
			wantTag:  "v2.0.0-rc1",
		},
		{
			name:     "exact tag",
			pages:    [][]Release{releases("v1.0.0", "v2.0.0")},
			criteria: Criteria{Tag: "v1.0.0"},
			wantTag:  "v1.0.0",
		},
		{
			name:     "nothing matches",
			pages:    [][]Release{releases("v1.0.0")},
			criteria: Criteria{Branch: "stable"},
			wantErr:  ErrNoMatchingRelease,
		},
		{
			name:    "no releases at all",
			wantErr: ErrNoMatchingRelease,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&pagedBackend{pages: tt.pages})

			got, err := r.Resolve(context.Background(), tt.criteria, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}

				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Tag != tt.wantTag {
				t.Errorf("Resolve().Tag = %q, want %q", got.Tag, tt.wantTag)
			}
		})
	}
}

func TestResolverResolveTieFirstFetchedWins(t *testing.T) {
	backend := &pagedBackend{pages: [][]Release{{
		{Tag: "1.0.0", Name: "first"},
		{Tag: "1.0.0", Name: "second"},
	}}}

	got, err := NewResolver(backend).Resolve(context.Background(), Criteria{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Name != "first" {
		t.Errorf("Resolve().Name = %q, want %q", got.Name, "first")
	}
}

func TestResolverResolveUnparseableTags(t *testing.T) {
	backend := &pagedBackend{pages: [][]Release{releases("nightly", "v1.0.0", "canary")}}

	got, err := NewResolver(backend).Resolve(context.Background(), Criteria{}, nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Unparseable tags compare equal to everything, so nothing displaces the first.
	if got.Tag != "nightly" {
		t.Errorf("Resolve().Tag = %q, want %q", got.Tag, "nightly")
	}
}

func TestResolverResolveCustomComparator(t *testing.T) {
	backend := &pagedBackend{pages: [][]Release{releases("v1.0.0-rc.1", "v1.0.0")}}
	criteria := Criteria{AllowPrerelease: true}

	got, err := NewResolver(backend).Resolve(context.Background(), criteria, CompareSemver)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got.Tag != "v1.0.0" {
		t.Errorf("Resolve().Tag = %q, want %q", got.Tag, "v1.0.0")
	}
}

func TestResolverFetchMatching(t *testing.T) {
	backend := &pagedBackend{pages: [][]Release{
		{
			{Tag: "v1.0.0", Name: "a"},
			{Tag: "v3.0.0", Prerelease: true},
			{Tag: "v2.0.0"},
		},
		{
			{Tag: "v1.0.0", Name: "b"},
		},
	}}

	got, err := NewResolver(backend).FetchMatching(context.Background(), Criteria{}, nil)
	if err != nil {
		t.Fatalf("FetchMatching() error = %v", err)
	}

	want := []string{"v2.0.0", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("FetchMatching() returned %d releases, want %d", len(got), len(want))
	}
	if got[0].Tag != want[0] || got[1].Name != want[1] || got[2].Name != want[2] {
		t.Errorf("FetchMatching() = %v, want newest first with stable ties", got)
	}
}

func TestResolverGetIfNewer(t *testing.T) {
	tests := []struct {
		name     string
		latest   string
		baseline string
		wantNil  bool
	}{
		{"same version", "1.2.0", "1.2.0", true},
		{"newer release", "1.3.0", "1.2.0", false},
		{"older release", "1.1.0", "1.2.0", true},
		{"prefixed tag", "v1.3.0", "1.2.0", false},
		{"no baseline", "1.0.0", "", false},
		{"unparseable baseline", "1.3.0", "dev", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &pagedBackend{pages: [][]Release{releases(tt.latest)}}
			criteria := Criteria{Baseline: tt.baseline}

			got, err := NewResolver(backend).GetIfNewer(context.Background(), criteria, nil)
			if err != nil {
				t.Fatalf("GetIfNewer() error = %v", err)
			}
			if (got == nil) != tt.wantNil {
				t.Errorf("GetIfNewer() = %v, want nil: %v", got, tt.wantNil)
			}
			if got != nil && got.Tag != tt.latest {
				t.Errorf("GetIfNewer().Tag = %q, want %q", got.Tag, tt.latest)
			}
		})
	}
}

func TestResolverGetIfNewerPropagatesErrors(t *testing.T) {
	backend := BackendFunc(func(context.Context, int, int) ([]Release, error) {
		return nil, errors.New("rate limited")
	})

	_, err := NewResolver(backend).GetIfNewer(context.Background(), Criteria{Baseline: "1.0.0"}, nil)
	if !errors.Is(err, ErrBackend) {
		t.Errorf("GetIfNewer() error = %v, want %v", err, ErrBackend)
	}
}
