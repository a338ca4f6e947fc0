package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localcc/autoupdater/internal/config"
	"github.com/localcc/autoupdater/internal/display"
	"github.com/localcc/autoupdater/internal/log"
	"github.com/localcc/autoupdater/internal/progress"
	"github.com/localcc/autoupdater/internal/update"
)

// ErrNotWritable is returned when the executable's directory cannot be written.
var ErrNotWritable = errors.New("cannot write to the executable's directory")

func newUpdateCmd(a *app) *cobra.Command {
	var (
		checkOnly bool
		yes       bool
	)

	cmd := &cobra.Command{
		Use:     "update",
		Short:   "Update to the latest release",
		GroupID: "update",
		Long: `Update the installed binary to the newest matching release.

By default, only stable releases are considered. Use --pre-release to include
pre-release versions and --tag to install an exact tag.

The update process:
1. Checks for the newest release
2. Downloads the asset for your platform
3. Verifies its checksum when the release has checksums.txt
4. Replaces the current binary, keeping the old one as <name>.exe.old

After a successful update, restart the program to use the new version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpdate(cmd, checkOnly, yes)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Check for updates without installing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompt")

	return cmd
}

func (a *app) runUpdate(cmd *cobra.Command, checkOnly, yes bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	src := a.cfg.Source

	if isDevBuild() && src.Tag == "" && !checkOnly {
		_, _ = fmt.Fprintf(out, "%s\n", display.WarningMsg("Dev build detected (%s)", Version))
		_, _ = fmt.Fprintln(out, "Automatic updates are disabled for dev builds. Pass --tag to install a specific release.")

		return nil
	}

	s, err := a.openSession(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, display.InfoMsg("Checking for updates..."))

	release, err := s.newest(ctx, src.Criteria(baseline()))
	if err != nil {
		return fmt.Errorf("check for updates: %w", err)
	}
	if release == nil {
		_, _ = fmt.Fprintln(out, display.SuccessMsg("Already up to date (%s)", Version))

		return nil
	}

	asset, err := update.SelectAsset(*release, src.Asset)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprint(out, display.FormatRelease("Update available", *release, Version))
	download := asset.Name
	if asset.Size > 0 {
		download += " (" + progress.FormatBytes(asset.Size) + ")"
	}
	_, _ = fmt.Fprint(out, display.KeyValue("Download", download))

	if checkOnly {
		return nil
	}

	warning := ""
	if release.Prerelease {
		warning = "This is a pre-release"
	}
	_, _ = fmt.Fprintln(out)
	confirmed, err := confirmAction(cmd.InOrStdin(), out,
		display.FormatConfirmation(fmt.Sprintf("Download and install %s?", release.Tag), nil, warning), yes)
	if err != nil {
		return err
	}
	if !confirmed {
		_, _ = fmt.Fprintln(out, display.Muted("Update cancelled"))

		return nil
	}

	installer := a.newInstaller()
	writable, err := installer.IsWritable()
	if err != nil {
		return err
	}
	if !writable {
		return fmt.Errorf("%w: %w", update.ErrInstallFailed, ErrNotWritable)
	}

	var onProgress update.ProgressFunc
	var status *progress.StatusLine
	if a.cfg.UI.Progress {
		status = progress.NewStatusLine(out, "Downloading "+asset.Name, asset.Size)
		onProgress = status.Func()
	}

	downloaded, err := s.downloader.Download(ctx, asset, s.source.AuthHeaders(), onProgress)
	if err != nil {
		if status != nil {
			status.Fail()
		}

		return err
	}
	if status != nil {
		status.Done()
	}
	defer func() {
		if err := update.Cleanup(downloaded); err != nil {
			log.Debug("could not remove download", log.Path(downloaded), log.Err(err))
		}
	}()

	if err := a.verifyDownload(cmd, s, *release, asset, downloaded); err != nil {
		return err
	}

	if err := installer.Replace(downloaded); err != nil {
		return err
	}

	backup := ""
	if exe, err := a.executable(); err == nil {
		backup = update.BackupPath(exe)
	}
	a.recordInstall(release.Tag, backup)

	_, _ = fmt.Fprintf(out, "\n%s\n", display.SuccessMsg("Updated to %s", display.Bold(release.Tag)))
	if backup != "" {
		_, _ = fmt.Fprintf(out, "%s Previous version kept at %s\n", display.Muted("→"), backup)
	}
	_, _ = fmt.Fprintf(out, "%s Restart to use the new version\n", display.Muted("→"))

	return nil
}

// verifyDownload checks the download against the release's checksums.txt. A
// release without one, or a manifest without the asset, is accepted with a warning.
func (a *app) verifyDownload(cmd *cobra.Command, s *session, r update.Release, asset update.Asset, path string) error {
	out := cmd.OutOrStdout()

	manifest, ok := r.Asset(update.ChecksumsAssetName)
	if !ok {
		_, _ = fmt.Fprintln(out, display.WarningMsg("No %s in release; skipping checksum verification", update.ChecksumsAssetName))

		return nil
	}

	content, err := s.downloader.DownloadChecksums(cmd.Context(), manifest, s.source.AuthHeaders())
	if err != nil {
		return err
	}

	expected := update.ParseChecksumsFile(content, asset.Name)
	if expected == "" {
		_, _ = fmt.Fprintln(out, display.WarningMsg("%s not listed in %s; skipping checksum verification", asset.Name, update.ChecksumsAssetName))

		return nil
	}

	if err := update.VerifyChecksum(path, expected); err != nil {
		return err
	}
	log.Debug("checksum verified", log.Asset(asset.Name))

	return nil
}

func (a *app) recordInstall(tag, backup string) {
	state, err := config.LoadState()
	if err != nil {
		state = &config.State{}
	}
	state.RecordInstall(a.cfg.Source.CacheKey(), tag, backup)
	if err := state.Save(); err != nil {
		log.Debug("could not save state", log.Err(err))
	}
}
