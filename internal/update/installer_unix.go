//go:build !windows

package update

import "os"

// makeExecutable adds the execute bits to path.
func makeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	return os.Chmod(path, info.Mode().Perm()|0o111)
}
