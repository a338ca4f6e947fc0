package update

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/localcc/autoupdater/internal/log"
)

const (
	oldSuffix    = ".exe.old"
	stagedSuffix = ".updated"
)

// Package-level seams swapped in tests.
var (
	osExecutable = os.Executable
	evalSymlinks = filepath.EvalSymlinks
	copyFile     = copyFileContents
	rename       = os.Rename
)

// Installer swaps the running executable for a downloaded one. The previous binary
// is kept next to it as <stem>.exe.old. One Installer per process; methods must not
// run concurrently.
type Installer struct{}

// NewInstaller creates a new installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// ExecutablePath returns the symlink-resolved path of the running binary.
func ExecutablePath() (string, error) {
	p, err := osExecutable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}

	resolved, err := evalSymlinks(p)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks for %s: %w", p, err)
	}

	return resolved, nil
}

// BackupPath returns where Replace keeps the previous binary for exe.
func BackupPath(exe string) string {
	return sidecarPath(exe, oldSuffix)
}

func sidecarPath(exe, suffix string) string {
	dir, base := filepath.Split(exe)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	return filepath.Join(dir, stem+suffix)
}

// Replace installs downloadedPath over the running executable.
//
// The new binary is first copied next to the target as <stem>.updated, so a copy
// failure never touches the running binary. The target is then renamed to
// <stem>.exe.old and the staged copy renamed into its place. If the last rename
// fails the old binary is moved back; when that fails too the error wraps
// ErrReplaceIncomplete and the previous binary is left at <stem>.exe.old.
//
// downloadedPath is not removed.
func (i *Installer) Replace(downloadedPath string) error {
	if err := makeExecutable(downloadedPath); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, fsError("chmod", downloadedPath, err))
	}

	current, err := ExecutablePath()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	old := sidecarPath(current, oldSuffix)
	staged := sidecarPath(current, stagedSuffix)

	if err := copyFile(downloadedPath, staged); err != nil {
		_ = os.Remove(staged)

		return fmt.Errorf("%w: stage new binary: %w", ErrInstallFailed, fsError("copy", staged, err))
	}

	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		log.Debug("could not remove stale backup", log.Path(old), log.Err(err))
	}

	if err := rename(current, old); err != nil {
		_ = os.Remove(staged)

		return fmt.Errorf("%w: move current binary aside: %w", ErrInstallFailed, fsError("rename", current, err))
	}

	if err := rename(staged, current); err != nil {
		replaceErr := fsError("rename", staged, err)
		if rbErr := rename(old, current); rbErr != nil {
			log.Error("executable could not be restored", log.Path(old), log.Err(rbErr))

			return fmt.Errorf("%w: %w: previous binary left at %s: %w", ErrInstallFailed, ErrReplaceIncomplete, old, replaceErr)
		}
		_ = os.Remove(staged)

		return fmt.Errorf("%w: install new binary: %w", ErrInstallFailed, replaceErr)
	}

	log.Debug("executable replaced", log.Path(current), "backup", old)

	return nil
}

// Rollback moves the backup left by a previous Replace over the running executable.
func (i *Installer) Rollback() error {
	current, err := ExecutablePath()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, err)
	}

	old := sidecarPath(current, oldSuffix)
	if _, err := os.Stat(old); err != nil {
		return fmt.Errorf("%w: no backup: %w", ErrInstallFailed, fsError("stat", old, err))
	}

	// The running binary cannot be overwritten in place on Windows, so it is
	// moved to the staged name first.
	staged := sidecarPath(current, stagedSuffix)
	_ = os.Remove(staged)
	if err := rename(current, staged); err != nil {
		return fmt.Errorf("%w: %w", ErrInstallFailed, fsError("rename", current, err))
	}

	if err := rename(old, current); err != nil {
		if rbErr := rename(staged, current); rbErr != nil {
			return fmt.Errorf("%w: %w: %w", ErrInstallFailed, ErrReplaceIncomplete, fsError("rename", old, err))
		}

		return fmt.Errorf("%w: %w", ErrInstallFailed, fsError("rename", old, err))
	}

	_ = os.Remove(staged)

	return nil
}

// IsWritable checks if the binary directory is writable.
// Returns false if the user may need elevated privileges.
func (i *Installer) IsWritable() (bool, error) {
	self, err := ExecutablePath()
	if err != nil {
		return false, err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(self), ".autoupdater-write-test-")
	if err != nil {
		return false, nil
	}

	_ = tmpFile.Close()
	_ = os.Remove(tmpFile.Name())

	return true, nil
}

// copyFileContents copies src to dst with src's permissions and flushes dst to disk.
func copyFileContents(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	// OpenFile's mode is subject to umask and ignored for existing files.
	if err := out.Chmod(info.Mode().Perm()); err != nil {
		return err
	}

	return out.Sync()
}
