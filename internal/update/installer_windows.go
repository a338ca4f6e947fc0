//go:build windows

package update

// makeExecutable is a no-op; Windows decides executability by extension.
func makeExecutable(string) error {
	return nil
}
