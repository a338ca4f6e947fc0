package update

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrBackend is returned when a release page request fails. Pagination stops at
	// the first failing page and no partial result is returned.
	ErrBackend = errors.New("update: release backend request failed")

	// ErrNoMatchingRelease is returned when no fetched release passes the criteria.
	ErrNoMatchingRelease = errors.New("update: no release matches the selection criteria")

	// ErrDownloadFailed is returned when downloading a release asset fails.
	ErrDownloadFailed = errors.New("update: download failed")

	// ErrChecksumFailed is returned when checksum verification fails.
	ErrChecksumFailed = errors.New("update: checksum verification failed")

	// ErrInstallFailed is returned when replacing the running executable fails.
	ErrInstallFailed = errors.New("update: installation failed")

	// ErrReplaceIncomplete is returned when the executable was moved aside but neither
	// the new binary nor the old one could be put back at the original path.
	// The previous binary is left at the .exe.old path and needs manual recovery.
	ErrReplaceIncomplete = errors.New("update: executable missing after failed replace")

	// ErrAssetNotFound is returned when no suitable asset is found in a release.
	ErrAssetNotFound = errors.New("update: no suitable asset found")

	// ErrUnknownComparator is returned for an unrecognized comparator name.
	ErrUnknownComparator = errors.New("update: unknown comparator")
)

// StatusError reports a non-success HTTP response while downloading an asset.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	if text := http.StatusText(e.Code); text != "" {
		return fmt.Sprintf("unexpected status %d %s", e.Code, text)
	}

	return fmt.Sprintf("unexpected status %d", e.Code)
}

// HTTPStatusCode returns the response status code.
func (e *StatusError) HTTPStatusCode() int {
	return e.Code
}

// FilesystemError records which filesystem operation failed, so callers can tell
// download-phase failures from replace-phase failures.
type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

func fsError(op, path string, err error) error {
	return &FilesystemError{Op: op, Path: path, Err: err}
}
