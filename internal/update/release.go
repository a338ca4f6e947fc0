package update

import "time"

// Release is one published version of the program as reported by a backend.
// Releases are never mutated after fetch.
type Release struct {
	Tag         string    // e.g., "v1.2.3"
	Branch      string    // Target branch or commitish; empty when the host has none
	Name        string    // e.g., "Release v1.2.3"
	Prerelease  bool      // true for pre-release versions
	Assets      []Asset   // Downloadable assets
	Body        string    // Release notes
	HTMLURL     string    // URL to the release page
	PublishedAt time.Time // Zero when unknown
}

// Asset is a downloadable file attached to a release.
type Asset struct {
	Name        string // e.g., "autoupdater-linux-amd64"
	DownloadURL string // URL the downloader requests
	Size        int64  // Size in bytes, 0 when unknown
}

// HasAsset reports whether the release carries an asset with exactly the given name.
func (r Release) HasAsset(name string) bool {
	_, ok := r.Asset(name)

	return ok
}

// Asset returns the asset with exactly the given name.
func (r Release) Asset(name string) (Asset, bool) {
	for _, a := range r.Assets {
		if a.Name == name {
			return a, true
		}
	}

	return Asset{}, false
}

// ProgressFunc receives the completed fraction of a download, in [0, 1].
type ProgressFunc func(fraction float64)
