package update

import (
	"fmt"
	"runtime"
	"strings"
)

// skipSuffixes marks release files that are never installable binaries.
var skipSuffixes = []string{".txt", ".sha256", ".sig", ".asc", ".pem", ".sbom", ".json"}

// SelectAsset picks the asset to install from r. A non-empty name must match an
// asset exactly. Otherwise the first asset whose name mentions the running OS and
// architecture is chosen, e.g. "app-linux-amd64", "app_Linux_x86_64",
// "app-macos-aarch64".
func SelectAsset(r Release, name string) (Asset, error) {
	return selectAsset(r, name, runtime.GOOS, runtime.GOARCH)
}

func selectAsset(r Release, name, goos, goarch string) (Asset, error) {
	if name != "" {
		if a, ok := r.Asset(name); ok {
			return a, nil
		}

		return Asset{}, fmt.Errorf("%w: %q in release %s", ErrAssetNotFound, name, r.Tag)
	}

	patterns := platformPatterns(goos, goarch)
	for _, a := range r.Assets {
		lower := strings.ToLower(a.Name)
		if hasAnySuffix(lower, skipSuffixes) {
			continue
		}
		for _, p := range patterns {
			if strings.Contains(lower, p) {
				return a, nil
			}
		}
	}

	return Asset{}, fmt.Errorf("%w: %s/%s in release %s", ErrAssetNotFound, goos, goarch, r.Tag)
}

// platformPatterns lists the os/arch spellings release tooling commonly uses.
func platformPatterns(goos, goarch string) []string {
	archs := []string{goarch}
	switch goarch {
	case "amd64":
		archs = append(archs, "x86_64", "x64")
	case "arm64":
		archs = append(archs, "aarch64")
	case "386":
		archs = append(archs, "i386")
	}

	oses := []string{goos}
	switch goos {
	case "darwin":
		oses = append(oses, "macos", "osx")
	}

	var patterns []string
	for _, o := range oses {
		for _, a := range archs {
			patterns = append(patterns, o+"_"+a, o+"-"+a, a+"_"+o, a+"-"+o)
		}
	}

	return patterns
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}

	return false
}
